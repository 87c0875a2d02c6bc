package dante

import (
	"bufio"
	"strings"
)

// Parse scans configuration text into a sequence of typed nodes.
// Parsing is best-effort recovery of prior intent, not strict validation:
// comments, unknown directives and rule classes the tool does not manage are
// skipped rather than rejected, so a hand-edited artifact never aborts a run.
func Parse(text string) []Node {
	var nodes []Node
	var current *Rule
	skipping := false

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Inside an unrecognized brace block: discard until it closes.
		if skipping {
			if line == "}" {
				skipping = false
			}
			continue
		}

		if current != nil {
			if line == "}" {
				nodes = append(nodes, *current)
				current = nil
				continue
			}
			readRuleField(current, line)
			continue
		}

		if strings.HasSuffix(line, "{") {
			if rule, ok := parseRuleHeader(line); ok {
				current = &rule
			} else {
				skipping = true
			}
			continue
		}

		if key, value, ok := strings.Cut(line, ":"); ok {
			nodes = append(nodes, Directive{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
			})
		}
	}

	// An unterminated rule at EOF is dropped; a truncated block carries no
	// trustworthy intent to recover.
	return nodes
}

// parseRuleHeader recognizes "client pass {", "socks block {" and the other
// class/action combinations. Reports false for any other brace block.
func parseRuleHeader(line string) (Rule, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[2] != "{" {
		return Rule{}, false
	}

	var rule Rule
	switch fields[0] {
	case "client":
		rule.Class = ClientRule
	case "socks":
		rule.Class = SocksRule
	default:
		return Rule{}, false
	}
	switch fields[1] {
	case "pass":
		rule.Action = Pass
	case "block":
		rule.Action = Block
	default:
		return Rule{}, false
	}
	return rule, true
}

// readRuleField fills one field line of a rule block. The from/to pair
// shares a line in the grammar, so fields are matched by label rather than
// by position.
func readRuleField(rule *Rule, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "from:":
		for i := 0; i < len(fields)-1; i++ {
			switch fields[i] {
			case "from:":
				rule.From = fields[i+1]
			case "to:":
				rule.To = fields[i+1]
			}
		}
	case "protocol:":
		rule.Protocols = fields[1:]
	case "log:":
		rule.Log = fields[1:]
	}
}
