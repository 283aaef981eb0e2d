package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SAScore/internal/infrastructure/storage/local"
	"github.com/turtacn/SAScore/pkg/errors"
)

// NewModelCmd creates the model command group.
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Build and inspect contribution models",
	}
	cmd.AddCommand(newModelBuildCmd(), newModelInfoCmd())
	return cmd
}

// ModelSummary is the printable form of a model.
type ModelSummary struct {
	Path      string           `json:"path,omitempty"`
	Model     domain.ModelInfo `json:"model"`
	Molecules int              `json:"molecules,omitempty"`
	Skipped   int              `json:"skipped,omitempty"`
	Duration  time.Duration    `json:"duration,omitempty"`
}

func (s *ModelSummary) fields() [][2]string {
	f := [][2]string{
		{"name", s.Model.Name},
		{"version", s.Model.ID},
		{"created", s.Model.CreatedAt.UTC().Format(time.RFC3339)},
		{"radius", strconv.Itoa(s.Model.Radius)},
		{"fragments", strconv.Itoa(s.Model.Fragments)},
		{"total", strconv.FormatInt(s.Model.Total, 10)},
		{"frequent_types", strconv.Itoa(s.Model.FrequentTypes)},
	}
	if s.Path != "" {
		f = append([][2]string{{"path", s.Path}}, f...)
	}
	if s.Molecules > 0 {
		f = append(f, [2]string{"molecules", strconv.Itoa(s.Molecules)}, [2]string{"skipped", strconv.Itoa(s.Skipped)})
	}
	if s.Duration > 0 {
		f = append(f, [2]string{"duration", s.Duration.Round(time.Millisecond).String()})
	}
	return f
}

// String implements fmt.Stringer.
func (s *ModelSummary) String() string {
	var sb strings.Builder
	for _, kv := range s.fields() {
		fmt.Fprintf(&sb, "%-15s %s\n", kv[0]+":", kv[1])
	}
	return sb.String()
}

// TableHeaders implements the table output.
func (s *ModelSummary) TableHeaders() []string { return []string{"FIELD", "VALUE"} }

// TableRows implements the table output.
func (s *ModelSummary) TableRows() [][]string {
	f := s.fields()
	rows := make([][]string, len(f))
	for i, kv := range f {
		rows[i] = []string{kv[0], kv[1]}
	}
	return rows
}

func newModelBuildCmd() *cobra.Command {
	var (
		corpusPath string
		outPath    string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a contribution model from a SMILES corpus",
		Long: "Build a fragment contribution model from a corpus file holding one SMILES per\n" +
			"line and write the snapshot to --out.  Use --corpus - to read stdin.",
		Example: "  sascore model build --corpus chembl.smi --out models/chembl.json.zst",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			corpus, err := readCorpusFile(corpusPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if name == "" {
				name = cliCtx.Config.Model.Name
			}
			if outPath == "" {
				outPath = name + ".json.zst"
			}

			ctx, cancel := cliCtx.withTimeout(cmd)
			defer cancel()

			result, err := cliCtx.newService().BuildModel(ctx, &app.BuildInput{Name: name, Corpus: corpus})
			if err != nil {
				return err
			}
			for _, s := range result.Skipped {
				cliCtx.Logger.Debug("corpus entry skipped",
					logging.Int("index", s.Index), logging.String("smiles", s.SMILES), logging.String("reason", s.Reason))
			}
			if err := local.SaveFile(outPath, result.Snapshot); err != nil {
				return err
			}
			return PrintResult(cmd, &ModelSummary{
				Path:      outPath,
				Model:     result.Model,
				Molecules: result.Molecules,
				Skipped:   len(result.Skipped),
				Duration:  result.Duration,
			})
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus file, one SMILES per line [REQUIRED]")
	cmd.Flags().StringVar(&outPath, "out", "", "snapshot output path (default: <name>.json.zst)")
	cmd.Flags().StringVar(&name, "name", "", "model name (default: model.name from config)")
	_ = cmd.MarkFlagRequired("corpus")
	return cmd
}

func newModelInfoCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe a model snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(modelPath)
			if err != nil {
				return err
			}
			return PrintResult(cmd, &ModelSummary{Path: modelPath, Model: snap.Info()})
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "model snapshot file [REQUIRED]")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func loadSnapshot(path string) (*domain.Snapshot, error) {
	if path == "" {
		return nil, errors.InvalidParam("--model is required")
	}
	return local.LoadFile(path)
}

//Personal.AI order the ending
