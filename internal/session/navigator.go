package session

import (
	"fmt"
	"io"
	"sync"
)

// Navigation targets raised by session transitions.
const (
	TargetLogin = "login"
	TargetAdmin = "admin"
)

// Navigator moves the user to another entry point after a transition.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// HintNavigator prints the command to run next. Repeated navigations to the
// same target print once, so concurrent 401s produce a single hint.
type HintNavigator struct {
	w     io.Writer
	hints map[string]string

	mu   sync.Mutex
	seen map[string]bool
}

func NewHintNavigator(w io.Writer) *HintNavigator {
	return &HintNavigator{
		w: w,
		hints: map[string]string{
			TargetLogin: "Session ended. Sign in again with 'panelctl auth login'.",
			TargetAdmin: "Impersonation ended. Back to your admin account: 'panelctl user list'.",
		},
		seen: make(map[string]bool),
	}
}

func (n *HintNavigator) Navigate(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seen[target] {
		return
	}
	n.seen[target] = true

	hint, ok := n.hints[target]
	if !ok {
		hint = "Next: " + target
	}
	fmt.Fprintln(n.w, hint)
}
