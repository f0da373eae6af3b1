package main

import (
	"fmt"
	"os"

	"github.com/hostwire/netcon/pkg/config"
	"github.com/hostwire/netcon/pkg/nft"
	"github.com/hostwire/netcon/pkg/runner"
	"github.com/hostwire/netcon/pkg/session"
	"github.com/hostwire/netcon/pkg/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	version    = "dev"
	configPath string
	logPath    string
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netcon",
		Short: "netcon - interactive host network and firewall console",
		Long:  "An interactive console for configuring host networking (addresses, routes, DNS, hostname) and nftables packet filtering through guided forms.",
		RunE:  runConsole,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/netcon/netcon.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "/var/log/netcon/netcon.log", "path to log file")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Reconcile firewall service health once and exit",
		RunE:  runCheck,
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("netcon version %s\n", version)
		},
	}
}

// runConsole starts the interactive operator session.
func runConsole(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	logger := newFileLogger(logPath, level)
	defer logger.Sync()

	configMgr, err := config.NewManager(configPath, logger.Named("config"))
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return err
	}

	cfg := configMgr.GetConfig()
	level.SetLevel(cfg.Global.Level())

	logger.Info("starting netcon",
		zap.String("version", version),
		zap.String("config", configPath),
	)

	// Hot-reload applies only the log level; everything else is read
	// once per session.
	configMgr.WatchConfig()
	go func() {
		for range configMgr.OnChange() {
			level.SetLevel(configMgr.GetConfig().Global.Level())
		}
	}()

	run := runner.New(logger.Named("runner"))
	sess := session.New(run, cfg, logger.Named("session"))
	console := tui.NewConsole(sess, logger.Named("tui"))

	return console.Run()
}

// runCheck performs a single headless firewall health reconciliation.
// Exit status is non-zero only when the firewall binary is unobtainable.
func runCheck(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	logger := newConsoleLogger()
	defer logger.Sync()

	configMgr, err := config.NewManager(configPath, logger.Named("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := configMgr.GetConfig()

	run := runner.New(logger.Named("runner"))
	firewall := nft.NewManager(run, cfg.Firewall.ConfPath, cfg.Firewall.Service, cfg.Firewall.Package, logger.Named("firewall"))

	outcome, err := firewall.EnsureReady()
	if err != nil {
		return fmt.Errorf("firewall reconciliation failed: %w", err)
	}

	logger.Info("firewall reconciliation finished",
		zap.String("state", outcome.State.String()),
		zap.Bool("degraded", outcome.Degraded),
	)
	return nil
}

// requireRoot refuses to run any mutating path without elevated privileges.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("netcon must be run as root")
	}
	return nil
}

// newFileLogger creates a logger writing to a rotating file so log
// output never corrupts the interactive screen.
func newFileLogger(path string, level zap.AtomicLevel) *zap.Logger {
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), writer, level)
	return zap.New(core)
}

// newConsoleLogger creates a stderr logger for headless subcommands.
func newConsoleLogger() *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	loggerConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return logger
}
