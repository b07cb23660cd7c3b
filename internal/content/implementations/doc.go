// Package implementations объявляет типы контента игры. Каждый файл
// описывает данные ролей типа и регистрирует его через content.Define,
// поэтому объявленный тип всегда попадает в глобальный реестр.
package implementations
