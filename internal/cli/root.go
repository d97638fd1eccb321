package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ecoguard/backend/internal/config"
	"github.com/ecoguard/backend/internal/service"
)

// runtime is the state shared by every subcommand once flags are parsed
type runtime struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// dashboard wires the ML bridge into a dashboard service
func (r *runtime) dashboard() *service.DashboardService {
	bridge := service.NewMLBridge(service.MLBridgeConfig{
		LifestyleURL:   r.cfg.LifestyleServiceURL,
		VisionURL:      r.cfg.VisionServiceURL,
		SensorURL:      r.cfg.SensorServiceURL,
		SensorDisabled: r.cfg.SensorDisabled,
		LifestyleDelay: r.cfg.LifestyleDelay,
		VisionDelay:    r.cfg.VisionDelay,
	}, r.logger)

	return service.NewDashboardService(bridge, bridge, bridge, r.cfg.ScoringTimeout, r.logger)
}

// NewRootCmd creates the ecoguard command tree
func NewRootCmd() *cobra.Command {
	var debug bool
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:   "ecoguard",
		Short: "Estimate your yearly carbon footprint",
		Long: `EcoGuard estimates a yearly carbon footprint from a lifestyle survey,
an optional photo of household waste and a live gas sensor forecast.

Model services are configured through the environment (or a .env file):
LIFESTYLE_SERVICE_URL, VISION_SERVICE_URL and SENSOR_SERVICE_URL. Unset
services fall back to built-in mocks.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt.cfg = config.Load()

			// the terminal UI owns stdout, keep logging quiet unless asked
			level := "warn"
			if debug {
				level = "debug"
			}
			rt.logger = config.NewLogger(level, true)
			rt.logger.Debug().Bool("env_file", rt.cfg.EnvFileLoaded).Msg("configuration loaded")
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newCalcCmd(rt))
	cmd.AddCommand(newScoreCmd(rt))
	cmd.AddCommand(newSchemaCmd())

	return cmd
}
