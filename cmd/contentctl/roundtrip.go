package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/annel0/voxel-content/internal/content"
)

func newRoundTripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <role> <id> [hex]",
		Short: "Deserialize bytes through the registry and serialize them back",
		Long: `Roundtrip decodes hex bytes (default: empty) as a value of the given
role and content id, then prints the re-serialized bytes.

Valid roles: block, entity, item

Example:
  contentctl roundtrip entity exp_orb 0500000000000000
  contentctl roundtrip block oak_log 02`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := content.ParseRole(args[0])
			if !ok {
				return fmt.Errorf("unknown role %q (valid: block, entity, item)", args[0])
			}
			id := content.ID(args[1])

			var src []byte
			if len(args) == 3 {
				var err error
				if src, err = hex.DecodeString(args[2]); err != nil {
					return fmt.Errorf("decode hex: %w", err)
				}
			}

			out, desc, ok := roundTrip(role, id, src)
			if !ok {
				return fmt.Errorf("%q can not be deserialized as %s", id, role)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "in:    %s\n", hex.EncodeToString(src))
			fmt.Fprintf(w, "out:   %s\n", hex.EncodeToString(out))
			fmt.Fprintf(w, "value: %s\n", desc)
			return nil
		},
	}
}

// roundTrip возвращает сериализованные байты и описание значения
func roundTrip(role content.Role, id content.ID, src []byte) ([]byte, string, bool) {
	r := content.Default()
	switch role {
	case content.RoleBlock:
		v, ok := r.DeserializeBlock(src, id)
		if !ok {
			return nil, "", false
		}
		defer v.Close()
		return v.Serialize(), v.String(), true
	case content.RoleEntity:
		v, ok := r.DeserializeEntity(src, id)
		if !ok {
			return nil, "", false
		}
		defer v.Close()
		return v.Serialize(), v.String(), true
	case content.RoleItem:
		v, ok := r.DeserializeItem(src, id)
		if !ok {
			return nil, "", false
		}
		defer v.Close()
		return v.Serialize(), v.String(), true
	}
	return nil, "", false
}
