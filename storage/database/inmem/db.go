// Package inmemdb keeps every table in process memory. It backs the tests and STORE=inmem.
package inmemdb

import (
	"sort"
	"strings"
	"sync"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/cahier"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/devoir"
	"github.com/trezcool/carnet/core/journal"
	"github.com/trezcool/carnet/core/material"
	"github.com/trezcool/carnet/core/rapport"
	"github.com/trezcool/carnet/core/teacher"
)

// DB is guarded by a single lock: rapport deletion spans two tables.
type DB struct {
	mutex sync.RWMutex
	seq   map[string]int

	teachers    map[int]teacher.Teacher
	attendance  map[int]attendance.Record
	journal     map[int]journal.Check
	inspections map[int]cahier.Inspection
	cahiers     map[int]cahier.Cahier
	lessons     map[int]cahier.Lesson
	materials   map[int]material.Distribution
	rapports    map[int]rapport.Rapport
	deliveries  map[int]rapport.Delivery
	devoirs     map[int]devoir.Check
	settings    map[string][]byte
}

func Open() *DB {
	return &DB{
		seq:         make(map[string]int),
		teachers:    make(map[int]teacher.Teacher),
		attendance:  make(map[int]attendance.Record),
		journal:     make(map[int]journal.Check),
		inspections: make(map[int]cahier.Inspection),
		cahiers:     make(map[int]cahier.Cahier),
		lessons:     make(map[int]cahier.Lesson),
		materials:   make(map[int]material.Distribution),
		rapports:    make(map[int]rapport.Rapport),
		deliveries:  make(map[int]rapport.Delivery),
		devoirs:     make(map[int]devoir.Check),
		settings:    make(map[string][]byte),
	}
}

// nextID works like a serial column. Callers hold the write lock.
func (db *DB) nextID(table string) int {
	db.seq[table]++
	return db.seq[table]
}

// sortRows orders rows like ORDER BY would. get returns the value of a named column of a row.
func sortRows[T any](rows []T, get func(row T, field string) interface{}, orderings []core.DBOrdering) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ord := range orderings {
			c := compare(get(rows[i], ord.Field), get(rows[j], ord.Field))
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compare(a, b interface{}) int {
	switch x := a.(type) {
	case int:
		y := b.(int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		return strings.Compare(x, b.(string))
	case calendar.Date:
		y := b.(calendar.Date)
		switch {
		case x.Before(y):
			return -1
		case x.After(y):
			return 1
		}
		return 0
	default:
		panic("inmemdb: unsortable column type")
	}
}

func copyStrings(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}

func values[T any](table map[int]T) []T {
	rows := make([]T, 0, len(table))
	for _, row := range table {
		rows = append(rows, row)
	}
	return rows
}
