package main

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/spf13/cobra"

	"github.com/vocdoni/poseidon254"
	"github.com/vocdoni/poseidon254/internal/params"
)

func (c *cli) newHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <element>...",
		Short: "Hash field elements (decimal or 0x-hex) and print the digest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := poseidon254.ParseMode(c.v.GetString("mode"))
			if err != nil {
				return err
			}
			if err := c.useConfiguredTable(); err != nil {
				return err
			}
			inputs, err := parseElements(args)
			if err != nil {
				return err
			}
			start := time.Now()
			out, err := poseidon254.Hash(mode, inputs...)
			if err != nil {
				return err
			}
			c.log.Debug().Stringer("mode", mode).Int("inputs", len(inputs)).Dur("took", time.Since(start)).Msg("hashed")
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
	cmd.Flags().String("mode", "const", "domain separation mode (const, merkle)")
	cobra.CheckErr(c.v.BindPFlag("mode", cmd.Flags().Lookup("mode")))
	return cmd
}

func (c *cli) newMerkleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merkle-root <leaf>...",
		Short: "Compute the Merkle root of field elements",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.useConfiguredTable(); err != nil {
				return err
			}
			leaves, err := parseElements(args)
			if err != nil {
				return err
			}
			root, err := poseidon254.MerkleRoot(leaves...)
			if err != nil {
				return err
			}
			c.log.Debug().Int("leaves", len(leaves)).Msg("merkle root computed")
			fmt.Fprintln(cmd.OutOrStdout(), root.String())
			return nil
		},
	}
}

// parseElements reads canonical elements; values >= r are rejected.
func parseElements(args []string) ([]fr.Element, error) {
	out := make([]fr.Element, len(args))
	for i, a := range args {
		e, err := params.ParseElement(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}
