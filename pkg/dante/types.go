// Package dante models the danted.conf rule grammar. It parses an existing
// configuration into typed blocks, recovers the active allow-list from them,
// and renders a complete configuration from a reconciled allow-list.
//
// Rules are evaluated by the server top to bottom, first match wins, so the
// renderer always places the catch-all block rule directly after the last
// pass rule of the same class.
package dante

import (
	"dantectl/pkg/addr"
)

// RuleClass identifies which evaluation pass a rule belongs to.
type RuleClass int

const (
	ClientRule RuleClass = iota // connection-level rules ("client pass" / "client block")
	SocksRule                   // protocol-level rules ("socks pass" / "socks block")
)

// Action is the verdict a rule applies to matching traffic.
type Action int

const (
	Pass  Action = iota // permit matching traffic
	Block               // deny matching traffic
)

// Node is one top-level element of a configuration file.
type Node interface {
	node()
}

// Directive is a global key/value setting, such as
// "internal: 0.0.0.0 port = 1080".
type Directive struct {
	Key   string
	Value string
}

// Rule is one brace-delimited rule block.
type Rule struct {
	Class     RuleClass
	Action    Action
	From      string
	To        string
	Protocols []string
	Log       []string
}

func (Directive) node() {}
func (Rule) node()      {}

// Config is a fully specified proxy configuration ready to render.
// The renderer trusts its fields; validation happens upstream.
type Config struct {
	Port      int
	Interface string
	AllowList addr.List
}

// Fixed configuration values shared by the renderer and its callers.
const (
	DefaultPort = 1080 // SOCKS listen port when none is given

	AnyAddr          = "0.0.0.0/0"           // catch-all source/destination
	LogOutput        = "/var/log/danted.log" // server log destination
	ListenAddr       = "0.0.0.0"             // bind on all interfaces
	PrivilegedUser   = "root"                // user.privileged identity
	UnprivilegedUser = "nobody"              // user.notprivileged identity
	LibwrapUser      = "nobody"              // user.libwrap identity
)

// String returns the keyword the grammar uses for the rule class.
func (c RuleClass) String() string {
	if c == SocksRule {
		return "socks"
	}
	return "client"
}

// String returns the keyword the grammar uses for the action.
func (a Action) String() string {
	if a == Block {
		return "block"
	}
	return "pass"
}
