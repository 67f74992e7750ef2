// Package cli is the line-oriented front end: it renders the board,
// accepts human moves in UCI notation and drives AI replies through the
// engine's request handles.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/sbhatta/chessai/internal/engine"
	"github.com/sbhatta/chessai/internal/game"
	"github.com/sbhatta/chessai/internal/storage"
)

// Options seeds a fresh session when there is no saved game to continue.
type Options struct {
	HumanColor chess.Color
	Difficulty engine.Difficulty
	AIEnabled  bool
	External   string // external engine path, for the status line
}

// CLI wires the session, engine and storage to a terminal.
type CLI struct {
	eng     *engine.Engine
	store   *storage.Storage
	log     *zap.SugaredLogger
	in      *bufio.Scanner
	out     io.Writer
	session *game.Session
	opts    Options
}

// New creates the front end. in and out are usually os.Stdin/os.Stdout.
func New(eng *engine.Engine, store *storage.Storage, log *zap.SugaredLogger, in io.Reader, out io.Writer, opts Options) *CLI {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CLI{
		eng:   eng,
		store: store,
		log:   log,
		in:    bufio.NewScanner(in),
		out:   out,
		opts:  opts,
	}
}

// Run plays until the user quits or input ends. The session is persisted
// on exit so an unfinished game can be continued later.
func (c *CLI) Run() error {
	if err := c.startSession(); err != nil {
		return err
	}

	c.printStatus()
	c.printBoard()

	for {
		if c.session.GameOver() {
			if !c.finishGame() {
				return nil
			}
			continue
		}

		if c.session.AITurn() {
			if err := c.aiMove(); err != nil {
				return err
			}
			continue
		}

		line, ok := c.readLine("> ")
		if !ok {
			return c.quit()
		}
		if done := c.handle(line); done {
			return nil
		}
	}
}

// startSession continues the saved game when the user wants to, and
// starts fresh otherwise.
func (c *CLI) startSession() error {
	saved, err := c.store.LoadGame()
	if err != nil {
		return err
	}
	if saved != nil {
		if c.confirm("Continue saved game? [Y/n] ") {
			session, err := game.Restore(saved)
			if err == nil {
				c.session = session
				c.eng.SetDifficulty(session.Difficulty())
				return nil
			}
			c.log.Warnw("could not restore saved game, starting fresh", "error", err)
		}
		if err := c.store.ClearGame(); err != nil {
			return err
		}
	}
	c.newSession()
	return nil
}

func (c *CLI) newSession() {
	c.session = game.New(c.opts.HumanColor, c.opts.Difficulty, c.opts.AIEnabled)
	c.eng.SetDifficulty(c.opts.Difficulty)
}

// aiMove requests a best move and blocks the prompt (not the engine)
// until it arrives.
func (c *CLI) aiMove() error {
	fmt.Fprintln(c.out, "AI is thinking...")
	req := c.eng.RequestBestMove(c.session.Position())
	res := <-req.Result()

	if res.Err != nil {
		// A failed search must not kill the game loop; the user can
		// retry, disable the AI or quit.
		fmt.Fprintf(c.out, "AI error: %v\n", res.Err)
		c.log.Errorw("ai move failed", "error", res.Err)
		c.session.SetAIEnabled(false)
		return nil
	}

	sr := res.SearchResult
	if sr.Move == nil {
		// No legal move: checkmate or stalemate, rendered by the
		// game-over path on the next loop iteration.
		return nil
	}
	if err := c.session.ApplyMove(sr.Move); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "AI plays %s (%s, %d nodes, depth %d)\n",
		sr.Move.String(), engine.ScoreToString(sr.Score), sr.Nodes, sr.Depth)
	c.printBoard()
	return nil
}

// handle processes one line of user input; it returns true when the
// program should exit.
func (c *CLI) handle(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		_ = c.quit()
		return true
	case "new":
		if err := c.store.ClearGame(); err != nil {
			c.log.Warnw("could not clear saved game", "error", err)
		}
		c.newSession()
		c.printBoard()
	case "moves":
		c.printMoves()
	case "board":
		c.printBoard()
	case "ai":
		c.session.SetAIEnabled(!c.session.AIEnabled())
		fmt.Fprintf(c.out, "AI enabled: %v\n", c.session.AIEnabled())
	case "difficulty":
		if len(fields) < 2 {
			fmt.Fprintf(c.out, "Difficulty: %s\n", c.session.Difficulty())
			return false
		}
		d, err := engine.ParseDifficulty(fields[1])
		if err != nil {
			fmt.Fprintln(c.out, "Usage: difficulty easy|medium|hard")
			return false
		}
		c.session.SetDifficulty(d)
		c.eng.SetDifficulty(d)
	case "help":
		c.printHelp()
	default:
		move, err := c.session.ApplyUCI(fields[0])
		if err != nil {
			fmt.Fprintf(c.out, "Illegal move %q (try e2e4, or \"help\")\n", fields[0])
			return false
		}
		fmt.Fprintf(c.out, "You play %s\n", move.String())
		c.printBoard()
	}
	return false
}

// finishGame reports the outcome, records it and asks for another game;
// it returns false when the program should exit.
func (c *CLI) finishGame() bool {
	fmt.Fprintln(c.out, c.session.OutcomeText())

	if rec, ok := c.session.Record(); ok {
		if err := c.store.RecordGame(rec); err != nil {
			c.log.Warnw("could not record game", "error", err)
		}
	}
	if err := c.store.ClearGame(); err != nil {
		c.log.Warnw("could not clear saved game", "error", err)
	}

	if !c.confirm("Play again? [Y/n] ") {
		return false
	}
	c.newSession()
	c.printBoard()
	return true
}

// quit cancels any in-flight search and persists an unfinished game.
func (c *CLI) quit() error {
	c.eng.Cancel()
	if c.session != nil && !c.session.GameOver() {
		if err := c.store.SaveGame(c.session.Snapshot()); err != nil {
			c.log.Warnw("could not save game", "error", err)
		} else {
			fmt.Fprintln(c.out, "Game saved.")
		}
	}
	return nil
}

func (c *CLI) readLine(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *CLI) confirm(prompt string) bool {
	line, ok := c.readLine(prompt)
	if !ok {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}

func (c *CLI) printStatus() {
	engineName := "embedded search"
	if c.opts.External != "" {
		engineName = "Stockfish (" + c.opts.External + ")"
	}
	fmt.Fprintf(c.out, "chessai — engine: %s\n", engineName)
}

func (c *CLI) printBoard() {
	pos := c.session.Position()
	fmt.Fprintln(c.out, pos.Board().Draw())
	toMove := "White"
	if pos.Turn() == chess.Black {
		toMove = "Black"
	}
	fmt.Fprintf(c.out, "%s to move\n", toMove)
}

func (c *CLI) printMoves() {
	history := c.session.MoveHistory()
	if len(history) == 0 {
		fmt.Fprintln(c.out, "No moves yet.")
		return
	}
	for i := 0; i < len(history); i += 2 {
		line := fmt.Sprintf("%d. %s", i/2+1, history[i])
		if i+1 < len(history) {
			line += " " + history[i+1]
		}
		fmt.Fprintln(c.out, line)
	}
}

func (c *CLI) printHelp() {
	fmt.Fprintln(c.out, `Commands:
  e2e4         play a move (UCI notation; promotions auto-queen)
  new          start a new game
  moves        show the move list
  board        reprint the board
  ai           toggle the AI opponent
  difficulty   show or set difficulty (easy|medium|hard)
  quit         save and exit`)
}
