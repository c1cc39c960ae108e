package ui

import (
	"sort"
	"strings"

	"github.com/derekparker/trie"
)

// completer finds command names for the first word and register names after it.
type completer struct {
	cmds *trie.Trie
	regs *trie.Trie
}

func newCompleter(cmds, regs []string) *completer {
	c := &completer{cmds: trie.New(), regs: trie.New()}
	for _, name := range cmds {
		c.cmds.Add(name, nil)
	}
	for _, name := range regs {
		c.regs.Add(name, nil)
	}
	return c
}

func (c *completer) search(t *trie.Trie, prefix string) []string {
	var matches []string
	if prefix == "" {
		matches = t.Keys()
	} else {
		matches = t.PrefixSearch(prefix)
	}
	sort.Strings(matches)
	return matches
}

// Do implements readline.AutoCompleter.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	start := strings.LastIndexAny(head, " \t") + 1
	word := head[start:]
	t := c.cmds
	if strings.TrimSpace(head[:start]) != "" {
		t = c.regs
		// completes the name half of reg=value
		if strings.ContainsRune(word, '=') {
			return nil, 0
		}
	}
	var out [][]rune
	for _, match := range c.search(t, word) {
		out = append(out, []rune(match[len(word):]+" "))
	}
	return out, len([]rune(word))
}
