package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/pkg/errors"
)

// ScoreReport is the printable result of the score command.
type ScoreReport struct {
	ModelVersion string          `json:"model_version"`
	Items        []app.BatchItem `json:"items"`
	Succeeded    int             `json:"succeeded"`
	Failed       int             `json:"failed"`
}

// String implements fmt.Stringer: one "score<TAB>smiles" line per molecule.
func (r *ScoreReport) String() string {
	var sb strings.Builder
	for _, it := range r.Items {
		if it.Error != nil {
			fmt.Fprintf(&sb, "error\t%s\t%s\n", it.SMILES, it.Error.Message)
			continue
		}
		fmt.Fprintf(&sb, "%.4f\t%s\n", it.Result.Score, it.SMILES)
	}
	return sb.String()
}

// TableHeaders implements the table output.
func (r *ScoreReport) TableHeaders() []string {
	return []string{"#", "SMILES", "SA", "FRAGMENT", "RING", "STEREO", "MACRO", "SIZE", "ERROR"}
}

// TableRows implements the table output.
func (r *ScoreReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		row := []string{strconv.Itoa(it.Index), it.SMILES}
		if it.Error != nil {
			rows = append(rows, append(row, "", "", "", "", "", "", it.Error.Code+": "+it.Error.Message))
			continue
		}
		b := it.Result.Breakdown
		row = append(row, formatFloat(it.Result.Score))
		if b == nil {
			rows = append(rows, append(row, "", "", "", "", "", ""))
			continue
		}
		rows = append(rows, append(row,
			formatFloat(b.FragmentScore),
			formatFloat(b.Complexity.RingTerm),
			formatFloat(b.Complexity.StereoTerm),
			formatFloat(b.Complexity.MacrocycleTerm),
			formatFloat(b.Complexity.SizeTerm),
			""))
	}
	return rows
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// NewScoreCmd creates the score command.
func NewScoreCmd() *cobra.Command {
	var (
		modelPath string
		inputPath string
	)

	cmd := &cobra.Command{
		Use:   "score [SMILES...]",
		Short: "Score molecules with a contribution model",
		Long: "Score SMILES given as arguments and/or read from --input (one per line).\n" +
			"The command exits non-zero when any molecule could not be scored.",
		Example: "  sascore score --model chembl.json.zst 'CC(=O)Oc1ccccc1C(=O)O'\n" +
			"  sascore score --model chembl.json.zst --input candidates.smi -o table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			smiles := append([]string(nil), args...)
			if inputPath != "" {
				more, err := readCorpusFile(inputPath, cmd.InOrStdin())
				if err != nil {
					return err
				}
				smiles = append(smiles, more...)
			}
			if len(smiles) == 0 {
				return errors.InvalidParam("no molecules given; pass SMILES arguments or --input")
			}
			snap, err := loadSnapshot(modelPath)
			if err != nil {
				return err
			}

			ctx, cancel := cliCtx.withTimeout(cmd)
			defer cancel()

			svc := cliCtx.newService()
			if err := svc.ActivateSnapshot(ctx, snap); err != nil {
				return err
			}

			report := &ScoreReport{ModelVersion: snap.Version()}
			limit := cliCtx.Config.Scoring.BatchLimit
			for start := 0; start < len(smiles); start += limit {
				end := start + limit
				if end > len(smiles) {
					end = len(smiles)
				}
				res, err := svc.ScoreBatch(ctx, smiles[start:end])
				if err != nil {
					return err
				}
				for _, it := range res.Items {
					it.Index += start
					report.Items = append(report.Items, it)
				}
				report.Succeeded += res.Succeeded
				report.Failed += res.Failed
			}

			if err := PrintResult(cmd, report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return errors.Newf(errors.CodeMoleculeParseFailed, "%d of %d molecules could not be scored",
					report.Failed, len(smiles))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "model snapshot file [REQUIRED]")
	cmd.Flags().StringVar(&inputPath, "input", "", "file with one SMILES per line ('-' for stdin)")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

//Personal.AI order the ending
