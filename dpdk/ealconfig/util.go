package ealconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

func shellSplit(field, flags string) (args []string, e error) {
	args, e = shellquote.Split(flags)
	if e != nil {
		return nil, fmt.Errorf("%s: %w", field, e)
	}
	return args, nil
}

type commaSeparated []string

func (l *commaSeparated) AppendInt(n ...int) {
	for _, v := range n {
		*l = append(*l, strconv.Itoa(v))
	}
}

func (l commaSeparated) String() string {
	return strings.Join([]string(l), ",")
}
