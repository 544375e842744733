package main

import (
	"math/rand/v2"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dimaq12/mines/config"
	"github.com/dimaq12/mines/game"
	"github.com/dimaq12/mines/store"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return err
	}

	// The terminal belongs to the game, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.LogFile).Msg("failed to open log file")
		return err
	}
	defer logFile.Close()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	prefs, err := config.LoadPreferences(cfg.SettingsPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.SettingsPath).Msg("using default preferences")
	}
	difficulty, err := game.ParseDifficulty(prefs.Difficulty)
	if err != nil {
		log.Warn().Err(err).Msg("using default difficulty")
	}

	var (
		recorder    game.Recorder
		leaderboard game.Leaderboard
	)
	if cfg.DBPath != "" {
		results, err := store.Open(cfg.DBPath)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.DBPath).Msg("failed to open results db")
			return err
		}
		defer results.Close()
		recorder, leaderboard = results, results
	}

	seed := rand.Uint64()
	if cfg.HasSeed {
		seed = cfg.Seed
	}
	log.Info().Uint64("seed", seed).Stringer("difficulty", difficulty).Msg("starting mines")

	session := game.NewSession(difficulty, rand.New(rand.NewPCG(seed, seed)), recorder, log.Logger)
	controller := game.NewGameController(session, game.NewRenderer(prefs.DarkMode), prefs, leaderboard, log.Logger)

	runErr := controller.Run()

	if err := config.SavePreferences(cfg.SettingsPath, controller.Preferences()); err != nil {
		log.Error().Err(err).Msg("failed to save preferences")
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("ui exited")
	}
	return runErr
}
