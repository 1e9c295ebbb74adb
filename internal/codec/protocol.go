// Package codec defines the JSON wire protocol: a small envelope carrying a
// type tag plus the typed payload, used in both directions. Commands travel
// client to server; replies and events travel back.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"limitpoker/internal/event"
)

// ErrUnknownType is returned for a command type the server does not know.
var ErrUnknownType = errors.New("unknown message type")

// Envelope is the wire container. Type routes the payload.
type Envelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ---- Commands (client -> server) ----

type LoginCmd struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ListTablesCmd struct{}

type OpenTableCmd struct {
	TableID uint64 `json:"tableId"`
}

type LeaveTableCmd struct {
	TableID uint64 `json:"tableId"`
}

type SitCmd struct {
	TableID uint64 `json:"tableId"`
	Seat    int    `json:"seat"`
}

type SitOutCmd struct {
	TableID uint64 `json:"tableId"`
}

type StartGameCmd struct {
	TableID uint64 `json:"tableId"`
}

type ActCmd struct {
	TableID     uint64   `json:"tableId"`
	ActionIndex int      `json:"actionIndex"`
	Params      []string `json:"params,omitempty"`
}

type ChatCmd struct {
	TableID uint64 `json:"tableId"`
	Message string `json:"message"`
}

// DecodeCommand parses one inbound frame into its command struct.
func DecodeCommand(data []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid command json: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("missing command type")
	}

	var cmd any
	switch env.Type {
	case "login":
		cmd = &LoginCmd{}
	case "list_tables":
		cmd = &ListTablesCmd{}
	case "open_table":
		cmd = &OpenTableCmd{}
	case "leave_table":
		cmd = &LeaveTableCmd{}
	case "sit":
		cmd = &SitCmd{}
	case "sit_out":
		cmd = &SitOutCmd{}
	case "start_game":
		cmd = &StartGameCmd{}
	case "act":
		cmd = &ActCmd{}
	case "chat":
		cmd = &ChatCmd{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	if len(env.Value) > 0 {
		if err := json.Unmarshal(env.Value, cmd); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Type, err)
		}
	}
	return cmd, nil
}

// EncodeCommand is the client-side counterpart of DecodeCommand.
func EncodeCommand(cmd any) ([]byte, error) {
	var typ string
	switch cmd.(type) {
	case *LoginCmd, LoginCmd:
		typ = "login"
	case *ListTablesCmd, ListTablesCmd:
		typ = "list_tables"
	case *OpenTableCmd, OpenTableCmd:
		typ = "open_table"
	case *LeaveTableCmd, LeaveTableCmd:
		typ = "leave_table"
	case *SitCmd, SitCmd:
		typ = "sit"
	case *SitOutCmd, SitOutCmd:
		typ = "sit_out"
	case *StartGameCmd, StartGameCmd:
		typ = "start_game"
	case *ActCmd, ActCmd:
		typ = "act"
	case *ChatCmd, ChatCmd:
		typ = "chat"
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, cmd)
	}
	return encode(typ, cmd)
}

// ---- Replies (server -> client) ----

type OkReply struct{}

type ErrorReply struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type TableListReply struct {
	Tables []event.TableListing `json:"tables"`
}

type TableStateReply struct {
	State event.TableState `json:"state"`
}

// EncodeReply frames one command reply.
func EncodeReply(reply any) ([]byte, error) {
	var typ string
	switch reply.(type) {
	case *OkReply, OkReply:
		typ = "ok"
	case *ErrorReply, ErrorReply:
		typ = "error"
	case *TableListReply, TableListReply:
		typ = "table_list"
	case *TableStateReply, TableStateReply:
		typ = "table_state"
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, reply)
	}
	return encode(typ, reply)
}

// EncodeEvent frames a table event, tagged with its kind.
func EncodeEvent(e event.Event) ([]byte, error) {
	return encode(e.Kind(), e)
}

func encode(typ string, v any) ([]byte, error) {
	value, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", typ, err)
	}
	return json.Marshal(Envelope{Type: typ, Value: value})
}
