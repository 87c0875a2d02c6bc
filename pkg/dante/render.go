package dante

import (
	"fmt"
	"strings"
)

// Logged events per rule kind. Pass rules record disconnects as well so the
// server log shows full client sessions; block rules only see the rejected
// connect.
var (
	passLog  = []string{"connect", "disconnect", "error"}
	blockLog = []string{"connect", "error"}

	socksProtocols = []string{"tcp", "udp"}
)

// Render serializes a configuration into danted.conf text.
//
// The layout is fixed: the global directive preamble, one "client pass"
// block per allow-list entry, the catch-all "client block", one "socks pass"
// block per entry restricted to TCP and UDP, and the catch-all "socks
// block". Output is deterministic for a given config.
//
// Render performs no validation; it trusts the already-validated port and
// already-reconciled allow-list it is given.
func Render(cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "logoutput: %s\n", LogOutput)
	fmt.Fprintf(&b, "internal: %s port = %d\n", ListenAddr, cfg.Port)
	fmt.Fprintf(&b, "external: %s\n", cfg.Interface)
	// Access control is IP-based only: no credentials at either negotiation
	// level.
	b.WriteString("clientmethod: none\n")
	b.WriteString("socksmethod: none\n")
	fmt.Fprintf(&b, "user.privileged: %s\n", PrivilegedUser)
	fmt.Fprintf(&b, "user.notprivileged: %s\n", UnprivilegedUser)
	fmt.Fprintf(&b, "user.libwrap: %s\n", LibwrapUser)
	b.WriteString("\n")

	for _, spec := range cfg.AllowList {
		writeRule(&b, Rule{
			Class:  ClientRule,
			Action: Pass,
			From:   string(spec),
			To:     AnyAddr,
			Log:    passLog,
		})
	}
	writeRule(&b, Rule{
		Class:  ClientRule,
		Action: Block,
		From:   AnyAddr,
		To:     AnyAddr,
		Log:    blockLog,
	})

	for _, spec := range cfg.AllowList {
		writeRule(&b, Rule{
			Class:     SocksRule,
			Action:    Pass,
			From:      string(spec),
			To:        AnyAddr,
			Protocols: socksProtocols,
			Log:       passLog,
		})
	}
	writeRule(&b, Rule{
		Class:  SocksRule,
		Action: Block,
		From:   AnyAddr,
		To:     AnyAddr,
		Log:    blockLog,
	})

	return b.String()
}

// writeRule emits one brace-delimited rule block followed by a blank line.
func writeRule(b *strings.Builder, r Rule) {
	fmt.Fprintf(b, "%s %s {\n", r.Class, r.Action)
	fmt.Fprintf(b, "    from: %s to: %s\n", r.From, r.To)
	if len(r.Protocols) > 0 {
		fmt.Fprintf(b, "    protocol: %s\n", strings.Join(r.Protocols, " "))
	}
	if len(r.Log) > 0 {
		fmt.Fprintf(b, "    log: %s\n", strings.Join(r.Log, " "))
	}
	b.WriteString("}\n\n")
}
