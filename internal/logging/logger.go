package logging

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает имя уровня без учёта регистра
func ParseLevel(s string) (LogLevel, bool) {
	for l := TRACE; l <= ERROR; l++ {
		if strings.EqualFold(l.String(), s) {
			return l, true
		}
	}
	return INFO, false
}

// Logger представляет систему логирования.
// Логгер компонента не имеет своих приёмников и пишет в логгер по умолчанию.
type Logger struct {
	component string
	shared    bool

	consoleLogger   *log.Logger
	fileLogger      *log.Logger
	file            *os.File
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// NewLogger создаёт логгер с выводом в консоль и файл в каталоге dir
func NewLogger(component, dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.log", component, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	return &Logger{
		component:       component,
		consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
		fileLogger:      log.New(file, "", log.LstdFlags),
		file:            file,
		minConsoleLevel: INFO,
		minFileLevel:    TRACE,
	}, nil
}

// InitDefaultLogger инициализирует логгер по умолчанию в каталоге logs
func InitDefaultLogger(component string) error {
	return InitDefaultLoggerIn("logs", component)
}

// InitDefaultLoggerIn инициализирует логгер по умолчанию в указанном каталоге
func InitDefaultLoggerIn(dir, component string) error {
	l, err := NewLogger(component, dir)
	if err != nil {
		return err
	}

	defaultMu.Lock()
	prev := defaultLogger
	defaultLogger = l
	defaultMu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return nil
}

// SetDefaultLevels задаёт минимальные уровни консоли и файла
func SetDefaultLevels(console, file LogLevel) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger != nil {
		defaultLogger.minConsoleLevel = console
		defaultLogger.minFileLevel = file
	}
}

// CloseDefaultLogger закрывает логгер по умолчанию
func CloseDefaultLogger() {
	defaultMu.Lock()
	l := defaultLogger
	defaultLogger = nil
	defaultMu.Unlock()

	if l != nil {
		l.Close()
	}
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	if l.shared || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Trace(format string, args ...interface{}) { l.logMessage(TRACE, format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logMessage(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logMessage(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logMessage(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.logMessage(ERROR, format, args...) }

// logMessage пишет сообщение в приёмники логгера.
// До инициализации логгера по умолчанию сообщения отбрасываются.
func (l *Logger) logMessage(level LogLevel, format string, args ...interface{}) {
	target := l
	minConsole, minFile := l.minConsoleLevel, l.minFileLevel

	if l.shared {
		defaultMu.RLock()
		target = defaultLogger
		if target != nil {
			minConsole = max(minConsole, target.minConsoleLevel)
			minFile = max(minFile, target.minFileLevel)
		}
		defaultMu.RUnlock()
		if target == nil {
			return
		}
	}

	prefix := ""
	if l.component != "" {
		prefix = "[" + l.component + "] "
	}
	message := fmt.Sprintf("[%s] %s%s", level.String(), prefix, fmt.Sprintf(format, args...))

	if target.fileLogger != nil && level >= minFile {
		target.fileLogger.Println(message)
	}
	if target.consoleLogger != nil && level >= minConsole {
		target.consoleLogger.Println(message)
	}
}

func defaultOrNil() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Trace логирует сообщение уровня TRACE
func Trace(format string, args ...interface{}) {
	if l := defaultOrNil(); l != nil {
		l.logMessage(TRACE, format, args...)
	}
}

// Debug логирует сообщение уровня DEBUG
func Debug(format string, args ...interface{}) {
	if l := defaultOrNil(); l != nil {
		l.logMessage(DEBUG, format, args...)
	}
}

// Info логирует сообщение уровня INFO
func Info(format string, args ...interface{}) {
	if l := defaultOrNil(); l != nil {
		l.logMessage(INFO, format, args...)
	}
}

// Warn логирует сообщение уровня WARN
func Warn(format string, args ...interface{}) {
	if l := defaultOrNil(); l != nil {
		l.logMessage(WARN, format, args...)
	}
}

// Error логирует сообщение уровня ERROR
func Error(format string, args ...interface{}) {
	if l := defaultOrNil(); l != nil {
		l.logMessage(ERROR, format, args...)
	}
}

// HexDump создает hex дамп данных
func HexDump(data []byte) string {
	if len(data) == 0 {
		return "No data"
	}

	// Ограничиваем размер дампа до 256 байт
	size := len(data)
	if size > 256 {
		size = 256
	}

	return hex.Dump(data[:size])
}
