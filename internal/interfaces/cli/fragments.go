package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/turtacn/SAScore/internal/application/sascore"
)

// FragmentReport is the printable fragment table of one molecule.
type FragmentReport struct {
	*app.FragmentsResult
	WithModel bool `json:"with_model"`
}

// String implements fmt.Stringer.
func (r *FragmentReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  radius=%d fragments=%d total=%d\n",
		r.SMILES, r.Radius, len(r.Fragments), r.Total)
	for _, f := range r.Fragments {
		if r.WithModel {
			fmt.Fprintf(&sb, "%10d  x%d  %s\n", f.ID, f.Count, r.contribution(f))
		} else {
			fmt.Fprintf(&sb, "%10d  x%d\n", f.ID, f.Count)
		}
	}
	return sb.String()
}

func (r *FragmentReport) contribution(f app.FragmentCount) string {
	if !f.Known {
		return "unknown"
	}
	return formatFloat(f.Contribution)
}

// TableHeaders implements the table output.
func (r *FragmentReport) TableHeaders() []string {
	if r.WithModel {
		return []string{"FRAGMENT", "COUNT", "CONTRIBUTION"}
	}
	return []string{"FRAGMENT", "COUNT"}
}

// TableRows implements the table output.
func (r *FragmentReport) TableRows() [][]string {
	rows := make([][]string, len(r.Fragments))
	for i, f := range r.Fragments {
		rows[i] = []string{strconv.FormatUint(uint64(f.ID), 10), strconv.FormatInt(f.Count, 10)}
		if r.WithModel {
			rows[i] = append(rows[i], r.contribution(f))
		}
	}
	return rows
}

// NewFragmentsCmd creates the fragments command.
func NewFragmentsCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "fragments SMILES",
		Short: "Dump the circular fragment table of a molecule",
		Long: "Dump the fragment identifiers and counts of a molecule.  With --model each\n" +
			"fragment also shows its contribution under that model.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.withTimeout(cmd)
			defer cancel()

			svc := cliCtx.newService()
			if modelPath != "" {
				snap, err := loadSnapshot(modelPath)
				if err != nil {
					return err
				}
				if err := svc.ActivateSnapshot(ctx, snap); err != nil {
					return err
				}
			}
			res, err := svc.Fragments(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, &FragmentReport{FragmentsResult: res, WithModel: modelPath != ""})
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "model snapshot file for per-fragment contributions")
	return cmd
}

//Personal.AI order the ending
