package config

import (
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/pelletier/go-toml/v2/unstable"
)

// tableOrder records the order in which tables and their keys first appear
// in one or more TOML documents. Decoding into maps loses that order, and
// the wizard presents sections in file order.
type tableOrder struct {
	tables []string
	keys   map[string][]string
	seen   map[string]bool
}

func newTableOrder() *tableOrder {
	return &tableOrder{keys: make(map[string][]string), seen: make(map[string]bool)}
}

// scan adds the tables and keys of data to the order
func (o *tableOrder) scan(data []byte) error {
	p := unstable.Parser{}
	p.Reset(data)

	current := ""
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			current = joinKey(expr.Key())
			o.addTable(current)
		case unstable.KeyValue:
			key := joinKey(expr.Key())
			if current == "" {
				continue
			}
			o.addKey(current, key)
		}
	}
	if err := p.Error(); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "invalid TOML")
	}
	return nil
}

func (o *tableOrder) addTable(name string) {
	if o.seen[name] {
		return
	}
	o.seen[name] = true
	o.tables = append(o.tables, name)
}

func (o *tableOrder) addKey(table, key string) {
	for _, k := range o.keys[table] {
		if k == key {
			return
		}
	}
	o.keys[table] = append(o.keys[table], key)
}

// Tables returns table names in first-seen order
func (o *tableOrder) Tables() []string { return o.tables }

// Keys returns the keys of table in first-seen order
func (o *tableOrder) Keys(table string) []string { return o.keys[table] }

func joinKey(it unstable.Iterator) string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return strings.Join(parts, ".")
}
