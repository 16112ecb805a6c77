package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/types"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

// stateVars are persisted to the override-data file. Values the build tool
// derives on every run are left out.
var stateVars = []string{
	VarRelease,
	VarSSHAccess,
	VarTemplateOnly,
	VarGitBaseURL,
	VarGitPrefix,
	VarRepoVersion,
	VarRepoTesting,
	VarDistsSelected,
	VarBuildersSelected,
}

// SaveState writes the wizard selections to the [makefile] table of the
// override-data file, the last merge layer of the next run. Only the lines
// of the persisted keys change; comments, other tables and their order are
// left as they are. The primary data file is never written.
func (s *Store) SaveState() error {
	path := s.paths.OverrideDataPath()

	var data []byte
	perm := os.FileMode(0644)
	if info, err := s.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
		if data, err = s.fs.ReadFile(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
		}
	}

	entries := make([]tableEntry, 0, len(stateVars))
	for _, name := range stateVars {
		line, err := encodeEntry(name, s.vars[name].Value())
		if err != nil {
			return err
		}
		entries = append(entries, tableEntry{key: name, line: line})
	}

	out, err := setTableEntries(data, types.SectionMakefile, entries)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
	}
	if err := s.fs.WriteFile(path, out, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).
			WithDetail("path", path)
	}

	s.logger.Info().Str("path", path).Msg("Wizard state saved")
	return nil
}

// tableEntry is one rendered `key = value` line of a table
type tableEntry struct {
	key  string
	line string
}

func encodeEntry(key string, value interface{}) (string, error) {
	if value == nil {
		value = ""
	}
	out, err := gotoml.Marshal(map[string]interface{}{key: value})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "cannot encode %s", key)
	}
	return string(out), nil
}

// position of one TOML expression in a document
type exprPos struct {
	line   int
	header bool
	table  string
	key    string
}

// setTableEntries replaces the lines of the given keys inside table and
// appends the keys the table does not have yet. The table is added at the
// end of the document when missing. Every other line is kept verbatim.
func setTableEntries(data []byte, table string, entries []tableEntry) ([]byte, error) {
	lines := strings.SplitAfter(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	exprs, err := scanPositions(data)
	if err != nil {
		return nil, err
	}

	want := make(map[string]string, len(entries))
	for _, e := range entries {
		want[e.key] = e.line
	}

	type span struct {
		end  int
		text string
	}
	replace := make(map[int]span)
	done := make(map[string]bool)
	insertAt := -1
	for i, e := range exprs {
		if e.table != table {
			continue
		}
		if e.header {
			insertAt = e.line + 1
			continue
		}
		end := len(lines)
		if i+1 < len(exprs) {
			end = exprs[i+1].line
		}
		// Comments and blank lines ahead of the next expression stay put
		for end-1 > e.line && isTrivia(lines[end-1]) {
			end--
		}
		insertAt = end
		if text, ok := want[e.key]; ok && !done[e.key] {
			replace[e.line] = span{end: end, text: text}
			done[e.key] = true
		}
	}

	var missing strings.Builder
	for _, e := range entries {
		if !done[e.key] {
			missing.WriteString(e.line)
		}
	}

	var buf bytes.Buffer
	insert := func() {
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteString(missing.String())
	}
	for i := 0; i < len(lines); {
		if i == insertAt {
			insert()
		}
		if s, ok := replace[i]; ok {
			buf.WriteString(s.text)
			i = s.end
			continue
		}
		buf.WriteString(lines[i])
		i++
	}
	switch {
	case insertAt == len(lines):
		insert()
	case insertAt < 0:
		if buf.Len() > 0 {
			if buf.Bytes()[buf.Len()-1] != '\n' {
				buf.WriteByte('\n')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString("[" + table + "]\n")
		buf.WriteString(missing.String())
	}
	return buf.Bytes(), nil
}

// scanPositions returns the starting line of every table header and
// key/value expression of data, along with the table each belongs to.
func scanPositions(data []byte) ([]exprPos, error) {
	p := unstable.Parser{}
	p.Reset(data)

	lineOf := func(offset uint32) int {
		return bytes.Count(data[:offset], []byte{'\n'})
	}

	var exprs []exprPos
	current := ""
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			name, offset := keyPosition(expr.Key())
			current = name
			exprs = append(exprs, exprPos{line: lineOf(offset), header: true, table: name})
		case unstable.KeyValue:
			name, offset := keyPosition(expr.Key())
			exprs = append(exprs, exprPos{line: lineOf(offset), table: current, key: name})
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return exprs, nil
}

// keyPosition joins a dotted key and returns the offset of its first part
func keyPosition(it unstable.Iterator) (string, uint32) {
	var parts []string
	var offset uint32
	for it.Next() {
		node := it.Node()
		if len(parts) == 0 {
			offset = node.Raw.Offset
		}
		parts = append(parts, string(node.Data))
	}
	return strings.Join(parts, "."), offset
}

func isTrivia(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
