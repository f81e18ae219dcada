package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skinsight/diagnosis/backend/internal/adapters/providers/imaging"
	"github.com/skinsight/diagnosis/backend/internal/application/services"
	apperrors "github.com/skinsight/diagnosis/backend/pkg/errors"
)

func newDiagnoseCommand(root *rootOptions) *cobra.Command {
	var (
		imagePath string
		symptoms  string
		delay     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Diagnose a skin condition from an image and a symptom description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(symptoms) == "" {
				return fmt.Errorf("--symptoms must not be blank")
			}
			if delay < 0 {
				return fmt.Errorf("--delay must not be negative")
			}

			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}

			image, err := os.Open(imagePath)
			if err != nil {
				return apperrors.NewReadError("failed to open image", err)
			}
			defer image.Close()

			engine := services.NewDiagnosisService(cat, imaging.NewStubClassifier(cat.ImageLabels(), delay))
			result, err := engine.Diagnose(cmd.Context(), image, symptoms)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "path to the skin image")
	cmd.Flags().StringVar(&symptoms, "symptoms", "", "free-text symptom description")
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "simulated image analysis latency")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("symptoms")

	return cmd
}
