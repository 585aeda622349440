package kaspa

import (
	"encoding/json"
	"fmt"
)

const jsonRPCVersion = "2.0"

type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

// response keeps result and error raw so that "absent" can be told apart from "null".
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// decodeRPCError accepts both the standard error object and a bare string.
func decodeRPCError(raw json.RawMessage) *RPCError {
	var e RPCError
	if err := json.Unmarshal(raw, &e); err == nil && (e.Message != "" || e.Code != 0) {
		return &e
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &RPCError{Message: s}
	}
	return &RPCError{Message: string(raw)}
}
