package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/command"
	"github.com/vancomm/sweeper/internal/mines"
)

const (
	winMessage  = "You Win!"
	loseMessage = "Game Over!"
	endHint     = "n: new game, q: quit"
	help        = "o row col: reveal, f row col: flag, n: new game, g: show board, q: quit"
)

type shell struct {
	params mines.GameParams
	rnd    *rand.Rand
	out    io.Writer
	game   *mines.GameState
	round  int
}

func newShell(params mines.GameParams, rnd *rand.Rand, out io.Writer) (*shell, error) {
	game, err := mines.NewSession(params, rnd)
	if err != nil {
		return nil, err
	}
	return &shell{params: params, rnd: rnd, out: out, game: game, round: 1}, nil
}

func (s *shell) render() {
	b := s.game.Board()
	fmt.Fprintf(s.out, "\nround %d  %s  flags %d/%d\n",
		s.round, s.params, b.Flags(), b.MineCount())
	fmt.Fprint(s.out, s.game.PlayerGrid().ToString(b.Width()))
	switch s.game.Outcome() {
	case mines.Won:
		fmt.Fprintln(s.out, winMessage)
		fmt.Fprintln(s.out, endHint)
	case mines.Lost:
		fmt.Fprintln(s.out, loseMessage)
		fmt.Fprintln(s.out, endHint)
	}
}

func (s *shell) restart() error {
	game, err := mines.Restart(s.params, s.rnd)
	if err != nil {
		return err
	}
	s.game = game
	s.round++
	log.WithField("round", s.round).Info("new round")
	return nil
}

// exec runs one input line and reports whether the shell should stop.
func (s *shell) exec(line string) (quit bool, err error) {
	if strings.TrimSpace(line) == "q" {
		return true, nil
	}
	c, err := command.Parse(line)
	if err != nil {
		log.WithField("line", line).Debug("rejected command: ", err)
		fmt.Fprintln(s.out, err)
		fmt.Fprintln(s.out, help)
		return false, nil
	}

	wasOver := s.game.Finished()
	if c.Apply(s.game) {
		return false, s.restart()
	}
	if !wasOver && s.game.Finished() {
		log.WithFields(logrus.Fields{
			"round":    s.round,
			"outcome":  s.game.Outcome().String(),
			"revealed": s.game.Board().Revealed(),
		}).Info("round finished")
	}
	return false, nil
}

// Run reads commands from in until q or end of input, printing the board
// after every command.
func (s *shell) Run(in io.Reader) error {
	fmt.Fprintln(s.out, help)
	s.render()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		quit, err := s.exec(line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		s.render()
	}
}
