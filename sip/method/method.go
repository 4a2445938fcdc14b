// Package method names the SIP request methods the stack recognises.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc3261#section-7.1
package method

import (
	"strconv"
	"strings"
)

type Type uint8

const (
	ACK Type = iota
	BYE
	CANCEL
	INVITE
	NOTIFY
	OPTIONS
	REFER
	REGISTER
	SUBSCRIBE
	RESPONSE
	MESSAGE
	INFO
	Unknown

	maxType
)

var names = [maxType]string{
	ACK:       "ACK",
	BYE:       "BYE",
	CANCEL:    "CANCEL",
	INVITE:    "INVITE",
	NOTIFY:    "NOTIFY",
	OPTIONS:   "OPTIONS",
	REFER:     "REFER",
	REGISTER:  "REGISTER",
	SUBSCRIBE: "SUBSCRIBE",
	RESPONSE:  "RESPONSE",
	MESSAGE:   "MESSAGE",
	INFO:      "INFO",
	Unknown:   "UNKNOWN",
}

// Lookup resolves a method name case-insensitively.
// Names that match nothing resolve to Unknown.
func Lookup(name string) Type {
	for idx, n := range names[:Unknown] {
		if strings.EqualFold(name, n) {
			return Type(idx)
		}
	}
	return Unknown
}

// All returns every known method, Unknown excluded.
func All() []Type {
	out := make([]Type, 0, Unknown)
	for t := ACK; t < Unknown; t++ {
		out = append(out, t)
	}
	return out
}

func (t Type) String() string {
	if t >= maxType {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return names[t]
}
