package main

import (
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/session"
)

var log = logrus.New()

var (
	boardSeed string
	logPath   string
)

func init() {
	const (
		defaultBoard = "10:10:10"
		usage        = "board as width:height:mines"
	)
	flag.StringVar(&boardSeed, "board", defaultBoard, usage)
	flag.StringVar(&boardSeed, "b", defaultBoard, usage+" (shorthand)")
	flag.StringVar(&logPath, "log", "sweeper.log", "log file path")
}

// setupLogging sends everything to a rotating file so that log lines never
// interleave with the board on the terminal.
func setupLogging() error {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(io.Discard)

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logPath,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return err
	}
	log.AddHook(hook)

	mines.Log = slog.New(slog.NewTextHandler(
		log.WriterLevel(logrus.DebugLevel),
		&slog.HandlerOptions{Level: slog.LevelDebug},
	))
	return nil
}

func main() {
	flag.Parse()

	if err := setupLogging(); err != nil {
		logrus.Fatal("unable to open log file: ", err)
	}

	params, err := mines.ParseSeed(boardSeed)
	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		log.Error("invalid board: ", err)
		logrus.Fatal(err)
	}

	log.WithField("params", params.String()).Info("starting")

	sh, err := newShell(*params, session.NewRand(), os.Stdout)
	if err != nil {
		log.Fatal("unable to deal a board: ", err)
	}
	if err := sh.Run(os.Stdin); err != nil {
		log.Error("input error: ", err)
		os.Exit(1)
	}
	log.Info("bye")
}
