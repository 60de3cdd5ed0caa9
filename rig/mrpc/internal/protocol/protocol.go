// Package protocol defines the messages exchanged over an mrpc WebSocket.  Each WebSocket message holds one
// MessagePack array: a Request from the client, or a Response from the server.
package protocol

import "github.com/tinylib/msgp/msgp"

//go:generate go run github.com/tinylib/msgp -io=false -tests=false
//msgp:tuple Request Fail
//msgp:ignore Response

// Request methods.
const (
	Call  = `call`  // answered by one Succ or Failed response
	Start = `start` // answered by any number of Yield responses, then End or Failed
)

// Response methods.
const (
	Succ   = `succ`
	Yield  = `yield`
	End    = `end`
	Failed = `fail`
)

// A Request asks the server to call or start a function.
type Request struct {
	ID       string   // echoed by every response, so a client can have several requests in flight
	Method   string   // Call or Start
	Function string   // the registered name of the function
	Input    msgp.Raw // nil, or the encoded input of the function
}

// A Response answers a Request.  Its Output is the function's output for Succ and Yield, a Fail for Failed and nil
// for End.
type Response struct {
	ID     string
	Method string
	Output msgp.MarshalSizer
}

// MarshalMsg implements msgp.Marshaler
func (rs *Response) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendArrayHeader(b, 3)
	b = msgp.AppendString(b, rs.ID)
	b = msgp.AppendString(b, rs.Method)
	if rs.Output == nil {
		return msgp.AppendNil(b), nil
	}
	return rs.Output.MarshalMsg(b)
}

// Msgsize implements msgp.Sizer
func (rs *Response) Msgsize() int {
	n := msgp.ArrayHeaderSize + msgp.StringPrefixSize + len(rs.ID) + msgp.StringPrefixSize + len(rs.Method)
	if rs.Output == nil {
		return n + msgp.NilSize
	}
	return n + rs.Output.Msgsize()
}

// A Fail describes why a request failed.  Codes follow HTTP status codes.
type Fail struct {
	Code int
	Msg  string
}
