package storage

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// InsertLogin persists one SchemaRecord into user_logins.
var InsertLogin = MustPrepare("insert_login",
	`insert into user_logins(user_id, device_type, masked_ip, masked_device_id, locale, app_version, create_date) values (:user_id, :device_type, :ip, :device_id, :locale, :app_version, :create_date)`)

// Statement is SQL written with :name placeholders, rewritten to the
// positional $n form lib/pq expects.
type Statement struct {
	Name   string
	SQL    string
	Params []string
	query  string
}

// Prepare parses the named placeholders of namedSQL. A "::" cast is left alone.
// A name used twice binds to the same position.
func Prepare(name, namedSQL string) (Statement, error) {
	stmt := Statement{Name: name, SQL: namedSQL}
	positions := make(map[string]int)

	var b strings.Builder
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(namedSQL, -1) {
		start, end := m[0], m[1]
		if start > 0 && namedSQL[start-1] == ':' {
			continue
		}
		param := namedSQL[m[2]:m[3]]
		pos, ok := positions[param]
		if !ok {
			stmt.Params = append(stmt.Params, param)
			pos = len(stmt.Params)
			positions[param] = pos
		}
		b.WriteString(namedSQL[last:start])
		b.WriteString("$" + strconv.Itoa(pos))
		last = end
	}
	b.WriteString(namedSQL[last:])

	if len(stmt.Params) == 0 {
		return Statement{}, fmt.Errorf("statement %s has no named parameters", name)
	}
	stmt.query = b.String()
	return stmt, nil
}

func MustPrepare(name, namedSQL string) Statement {
	stmt, err := Prepare(name, namedSQL)
	if err != nil {
		panic(err)
	}
	return stmt
}

// Query returns the positional form of the statement.
func (s Statement) Query() string {
	return s.query
}

// Bind orders params by placeholder position. params must hold exactly the
// statement's names, no more and no fewer.
func (s Statement) Bind(params map[string]any) ([]any, error) {
	args := make([]any, len(s.Params))
	var missing []string
	for i, name := range s.Params {
		v, ok := params[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		args[i] = v
	}

	var extra []string
	known := make(map[string]bool, len(s.Params))
	for _, name := range s.Params {
		known[name] = true
	}
	for name := range params {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	if len(missing) > 0 || len(extra) > 0 {
		return nil, fmt.Errorf("statement %s: missing parameters %v, unexpected parameters %v", s.Name, missing, extra)
	}
	return args, nil
}
