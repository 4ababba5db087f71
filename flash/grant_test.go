package flash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrantsLazyCreate(t *testing.T) {
	g := NewGrants()
	err := g.Enter(1, func(rec *Record) {
		rec.input = []byte{1, 2, 3, 4}
	})
	assert.NoError(t, err)

	var seen []byte
	err = g.Enter(1, func(rec *Record) {
		seen = rec.input
	})
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, seen)
}

func TestGrantsOverwrite(t *testing.T) {
	g := NewGrants()
	failIfErr(t, g.Enter(1, func(rec *Record) { rec.input = []byte{1} }))
	failIfErr(t, g.Enter(1, func(rec *Record) { rec.input = []byte{2} }))

	var seen []byte
	failIfErr(t, g.Enter(1, func(rec *Record) { seen = rec.input }))
	assert.Equal(t, []byte{2}, seen)
}

func TestGrantsRemove(t *testing.T) {
	g := NewGrants()
	failIfErr(t, g.Enter(1, func(rec *Record) { rec.input = []byte{1} }))
	failIfErr(t, g.Enter(2, func(rec *Record) { rec.input = []byte{2} }))

	g.Remove(1)

	// removed clients stay dead
	err := g.Enter(1, func(*Record) {})
	assert.ErrorIs(t, err, ErrNoSuchClient)

	// other clients are unaffected
	var seen []byte
	failIfErr(t, g.Enter(2, func(rec *Record) { seen = rec.input }))
	assert.Equal(t, []byte{2}, seen)
}

func failIfErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
