// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"fmt"
	"regexp"

	gc "gopkg.in/check.v1"
)

type bytesMatchChecker struct {
	*gc.CheckerInfo
}

// BytesMatches checks that a []byte, such as captured command output,
// matches a regular expression. Like gc.Matches the expression is
// anchored at both ends.
var BytesMatches gc.Checker = &bytesMatchChecker{
	&gc.CheckerInfo{Name: "BytesMatches", Params: []string{"obtained", "regex"}},
}

func (c *bytesMatchChecker) Check(params []interface{}, names []string) (bool, string) {
	obtained, ok := params[0].([]byte)
	if !ok {
		return false, fmt.Sprintf("obtained value is %T, not []byte", params[0])
	}
	expr, ok := params[1].(string)
	if !ok {
		return false, "regex must be a string"
	}
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return false, "cannot compile regex: " + err.Error()
	}
	return re.Match(obtained), ""
}
