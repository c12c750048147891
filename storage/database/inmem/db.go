// Package inmemdb provides in-memory repositories for tests and local
// hacking. It is a test double, never the system of record.
package inmemdb

import (
	"sync"

	"github.com/darasahq/darasa/core/badge"
	"github.com/darasahq/darasa/core/certificate"
	"github.com/darasahq/darasa/core/progress"
	"github.com/darasahq/darasa/core/user"
)

type (
	userTable struct {
		mu   sync.RWMutex
		rows map[string]*user.User // id -> user
	}

	progressTable struct {
		mu   sync.RWMutex
		rows map[string]map[int]*progress.DayProgress // userID -> day -> record
	}

	badgeTable struct {
		mu   sync.RWMutex
		rows map[string][]*badge.Badge           // userID -> badges, award order
		keys map[string]struct{}                 // userID|kind|day uniqueness
	}

	certificateTable struct {
		mu   sync.RWMutex
		rows map[string]*certificate.Certificate // userID|courseID -> cert
	}

	DB struct {
		user        *userTable
		progress    *progressTable
		badge       *badgeTable
		certificate *certificateTable
	}
)

func Open() (*DB, error) {
	return &DB{
		user:        &userTable{rows: make(map[string]*user.User)},
		progress:    &progressTable{rows: make(map[string]map[int]*progress.DayProgress)},
		badge:       &badgeTable{rows: make(map[string][]*badge.Badge), keys: make(map[string]struct{})},
		certificate: &certificateTable{rows: make(map[string]*certificate.Certificate)},
	}, nil
}
