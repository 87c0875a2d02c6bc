package dante

import (
	"dantectl/pkg/addr"
)

// Extract recovers the active allow-list from existing configuration text.
// Every "client pass" block contributes its source address, scanned in file
// order across all such blocks; the first occurrence of a duplicate wins.
// The catch-all 0.0.0.0/0 is never an allow-list entry, and sources that do
// not parse as an address spec are skipped along with everything else the
// parser does not recognize.
//
// Extract is round-trip stable with Render: extracting a rendered
// configuration reproduces the allow-list it was rendered from, order and
// membership intact.
func Extract(text string) addr.List {
	var list addr.List
	for _, block := range Parse(text) {
		rule, ok := block.(Rule)
		if !ok || rule.Class != ClientRule || rule.Action != Pass {
			continue
		}
		if rule.From == "" || rule.From == AnyAddr {
			continue
		}
		spec, err := addr.Parse(rule.From)
		if err != nil {
			continue
		}
		list = list.Add(spec)
	}
	return list
}
