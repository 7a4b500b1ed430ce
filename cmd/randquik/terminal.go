package main

import "golang.org/x/term"

// isTerminal reports whether fd is attached to a terminal, used to refuse
// writing raw keystream bytes to an interactive stdout (spec.md §6).
func isTerminal(fd int) bool {
	return term.IsTerminal(fd)
}
