// Package server owns the table directory and the user sessions, and routes
// every inbound command to the right table on a single event loop. All table
// and game state is mutated only on that loop, so events produced by one
// command are flushed to every observer before the next command runs.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"limitpoker/internal/cards"
	"limitpoker/internal/chips"
	"limitpoker/internal/codec"
	"limitpoker/internal/event"
	"limitpoker/internal/game"
	"limitpoker/internal/table"
)

// Options tunes per-server gameplay defaults.
type Options struct {
	// StartingChips is the buy-in granted on sit.
	StartingChips chips.Amount
	// ActionTimeout bounds a prompted player's thinking time. Zero
	// disables timeouts.
	ActionTimeout time.Duration
	// TickInterval is how often timeouts are checked.
	TickInterval time.Duration
}

// Server routes commands between sessions and tables.
type Server struct {
	log  *zap.Logger
	opts Options

	tables     map[uint64]*table.Table
	tableOrder []uint64
	nextTable  uint64

	sessions map[string]*Session // by username
	creds    map[string]string

	cmds chan func()
}

func New(log *zap.Logger, opts Options) *Server {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	return &Server{
		log:      log,
		opts:     opts,
		tables:   map[uint64]*table.Table{},
		sessions: map[string]*Session{},
		creds:    map[string]string{},
		cmds:     make(chan func(), 64),
	}
}

// CreateTable registers a new table in the directory.
func (s *Server) CreateTable(name string, limit game.Limit, numSeats int) *table.Table {
	s.nextTable++
	t := table.NewTable(s.nextTable, name, limit, numSeats)
	t.SetActionTimeout(s.opts.ActionTimeout)
	t.SetFailureFunc(func(handID string, err error) {
		s.log.Error("hand aborted by engine failure",
			zap.Uint64("table", t.ID),
			zap.String("hand", handID),
			zap.Error(err))
	})
	s.tables[t.ID] = t
	s.tableOrder = append(s.tableOrder, t.ID)
	s.log.Info("table created",
		zap.Uint64("table", t.ID),
		zap.String("name", name),
		zap.String("limit", limit.String()))
	return t
}

// Run drives the event loop until the context is cancelled. Every command
// and every timeout check executes here, serially.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()
	s.log.Info("server loop running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.cmds:
			fn()
		case now := <-ticker.C:
			for _, t := range s.tables {
				t.Tick(now)
			}
		}
	}
}

// Do schedules fn on the server loop.
func (s *Server) Do(fn func()) {
	s.cmds <- fn
}

// Dispatch runs the command on the server loop and waits for its reply.
// Transports call this once per inbound frame.
func (s *Server) Dispatch(sess *Session, cmd any) any {
	reply := make(chan any, 1)
	s.cmds <- func() { reply <- s.HandleCommand(sess, cmd) }
	return <-reply
}

// HandleCommand executes one decoded command. It must only be called on the
// server loop.
func (s *Server) HandleCommand(sess *Session, cmd any) any {
	reply, err := s.handle(sess, cmd)
	if err != nil {
		s.log.Debug("command failed",
			zap.String("session", sess.ID),
			zap.String("user", sess.Username),
			zap.String("kind", errorKind(err)),
			zap.Error(err))
		return &codec.ErrorReply{Kind: errorKind(err), Message: err.Error()}
	}
	if reply == nil {
		return &codec.OkReply{}
	}
	return reply
}

func (s *Server) handle(sess *Session, cmd any) (any, error) {
	if c, ok := cmd.(*codec.LoginCmd); ok {
		return nil, s.login(sess, c)
	}
	if sess.Username == "" {
		return nil, fmt.Errorf("%w: not logged in", ErrAuth)
	}

	switch c := cmd.(type) {
	case *codec.ListTablesCmd:
		listings := make([]event.TableListing, 0, len(s.tableOrder))
		for _, id := range s.tableOrder {
			listings = append(listings, s.tables[id].Listing())
		}
		return &codec.TableListReply{Tables: listings}, nil

	case *codec.OpenTableCmd:
		t, err := s.findTable(c.TableID)
		if err != nil {
			return nil, err
		}
		t.AddObserver(sess.Username, sess)
		sess.tables[t.ID] = true
		return &codec.TableStateReply{State: t.State()}, nil

	case *codec.LeaveTableCmd:
		t, err := s.openTable(sess, c.TableID)
		if err != nil {
			return nil, err
		}
		if t.PlayerByName(sess.Username) != nil {
			_ = t.RemovePlayer(sess.Username)
		}
		t.RemoveObserver(sess.Username)
		delete(sess.tables, t.ID)
		return nil, nil

	case *codec.SitCmd:
		t, err := s.openTable(sess, c.TableID)
		if err != nil {
			return nil, err
		}
		_, err = t.SeatPlayer(sess.Username, c.Seat, s.opts.StartingChips)
		if err == nil {
			s.log.Info("player seated",
				zap.Uint64("table", t.ID),
				zap.String("user", sess.Username),
				zap.Int("seat", c.Seat))
		}
		return nil, err

	case *codec.SitOutCmd:
		t, err := s.openTable(sess, c.TableID)
		if err != nil {
			return nil, err
		}
		return nil, t.SitOutPlayer(sess.Username)

	case *codec.StartGameCmd:
		t, err := s.openTable(sess, c.TableID)
		if err != nil {
			return nil, err
		}
		return nil, t.Begin()

	case *codec.ActCmd:
		t, err := s.openTable(sess, c.TableID)
		if err != nil {
			return nil, err
		}
		return nil, t.Act(sess.Username, c.ActionIndex, c.Params)

	case *codec.ChatCmd:
		t, err := s.openTable(sess, c.TableID)
		if err != nil {
			return nil, err
		}
		t.Broadcast(event.PlayerSentChatMessage{Name: sess.Username, Message: c.Message})
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidCommand, cmd)
	}
}

// login authenticates the session. Unknown usernames register on first
// login; a username may be attached to at most one live session.
func (s *Server) login(sess *Session, c *codec.LoginCmd) error {
	if sess.Username != "" {
		return fmt.Errorf("%w: already logged in as %s", ErrInvalidCommand, sess.Username)
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("%w: username and password required", ErrAuth)
	}
	if pw, known := s.creds[c.Username]; known {
		if pw != c.Password {
			return fmt.Errorf("%w: bad credentials for %s", ErrAuth, c.Username)
		}
	} else {
		s.creds[c.Username] = c.Password
	}
	if _, live := s.sessions[c.Username]; live {
		return fmt.Errorf("%w: %s is already connected", ErrAuth, c.Username)
	}
	sess.Username = c.Username
	s.sessions[c.Username] = sess
	s.log.Info("login", zap.String("user", c.Username), zap.String("session", sess.ID))
	return nil
}

// Detach drops a dead session. Seats are kept: the player is marked sitting
// out at every table and their pending action, if any, folds.
func (s *Server) Detach(sess *Session) {
	if sess.Username == "" {
		return
	}
	for id := range sess.tables {
		t, ok := s.tables[id]
		if !ok {
			continue
		}
		t.RemoveObserver(sess.Username)
		if t.PlayerByName(sess.Username) != nil {
			_ = t.SitOutPlayer(sess.Username)
		}
	}
	delete(s.sessions, sess.Username)
	s.log.Info("session detached", zap.String("user", sess.Username), zap.String("session", sess.ID))
}

func (s *Server) findTable(id uint64) (*table.Table, error) {
	t, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchTable, id)
	}
	return t, nil
}

// openTable resolves a table the session has previously opened.
func (s *Server) openTable(sess *Session, id uint64) (*table.Table, error) {
	t, err := s.findTable(id)
	if err != nil {
		return nil, err
	}
	if !sess.tables[id] {
		return nil, fmt.Errorf("%w: table %d", ErrTableNotOpen, id)
	}
	return t, nil
}

// errorKind names the error's kind for the wire; clients branch on the kind,
// never on the message text.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, game.ErrInvalidPlay):
		return "invalid_play"
	case errors.Is(err, game.ErrActionParams):
		return "action_validation"
	case errors.Is(err, game.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, game.ErrUnexpectedAction):
		return "unexpected_action"
	case errors.Is(err, table.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, table.ErrSeatOccupied):
		return "seat_occupied"
	case errors.Is(err, table.ErrAlreadySeated):
		return "already_seated"
	case errors.Is(err, cards.ErrOutOfCards):
		return "out_of_cards"
	default:
		return "invalid_command"
	}
}
