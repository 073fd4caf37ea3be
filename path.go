// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"net/url"
	"strings"

	"github.com/SeleniumHQ/selenium-sub066/protocol"
)

const sessionIDParam = "session_id"

//SubstitutePath replaces every ":key" segment of template with the path
//escaped value of params[key].
func SubstitutePath(template string, params map[string]string) (string, error) {
	segments := strings.Split(template, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		key := seg[1:]
		value, found := params[key]
		if !found {
			return "", &protocol.MissingParameterError{Template: template, Param: key}
		}
		segments[i] = url.PathEscape(value)
	}
	return strings.Join(segments, "/"), nil
}

//pathParams lists the ":key" names used by template.
func pathParams(template string) []string {
	var keys []string
	for _, seg := range strings.Split(template, "/") {
		if strings.HasPrefix(seg, ":") {
			keys = append(keys, seg[1:])
		}
	}
	return keys
}

func isSessionScoped(template string) bool {
	for _, k := range pathParams(template) {
		if k == sessionIDParam {
			return true
		}
	}
	return false
}
