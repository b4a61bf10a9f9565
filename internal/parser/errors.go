package parser

import (
	"fmt"
	"strings"
)

// Usage lists every console command with its syntax.
var Usage = []string{
	"bet <amount>",
	"hit",
	"stand",
	"double",
	"use <class|slot>",
	"target <card>",
	"cancel",
	"continue",
	"reroll",
	"choose <n>",
	"equip <slot>",
	"sell",
	"tag <card>",
	"new",
	"stack <card>...",
	"help",
}

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty command, try help")
	}

	cmd := strings.ToLower(strings.Fields(input)[0])
	for _, u := range Usage {
		if strings.Fields(u)[0] == cmd {
			return fmt.Errorf("the command %s must be: %s", cmd, u)
		}
	}
	return fmt.Errorf("unknown command %q, try help", cmd)
}
