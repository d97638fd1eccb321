package cli

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/scorecard"
)

func newScoreCmd(rt *runtime) *cobra.Command {
	var (
		answersPath string
		imagePath   string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a saved answers file without the interactive wizard",
		Long: `Reads survey answers from a YAML or JSON file, runs the models and
prints the scorecard. Missing answers keep the wizard defaults.`,
		Example: `  ecoguard score -f answers.yaml
  ecoguard score -f answers.json --image bin.jpg --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			answers, err := readAnswers(answersPath)
			if err != nil {
				return err
			}

			var img *domain.Image
			if imagePath != "" {
				if img, err = readImage(imagePath); err != nil {
					return err
				}
			}

			sc := rt.dashboard().Evaluate(cmd.Context(), answers, img)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sc)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), scorecard.Summary(sc))
			return err
		},
	}

	cmd.Flags().StringVarP(&answersPath, "file", "f", "", "answers file (.yaml, .yml or .json)")
	cmd.Flags().StringVar(&imagePath, "image", "", "waste photo to analyse")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the scorecard as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readAnswers decodes an answers file over the defaults, then validates it
func readAnswers(path string) (domain.SurveyAnswers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SurveyAnswers{}, fmt.Errorf("score: failed to read answers: %w", err)
	}

	answers := domain.DefaultAnswers()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &answers)
	} else {
		err = yaml.Unmarshal(data, &answers)
	}
	if err != nil {
		return domain.SurveyAnswers{}, fmt.Errorf("score: failed to decode %s: %w", path, err)
	}

	answers = answers.Normalize()
	if err := answers.Validate(); err != nil {
		return domain.SurveyAnswers{}, fmt.Errorf("score: %w", err)
	}
	return answers, nil
}

func readImage(path string) (*domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &domain.Image{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
