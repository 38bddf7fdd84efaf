package checker

import (
	"testing"

	"github.com/ballotchain/ballot-node/core/state/bus"
)

func TestChecker_Check(t *testing.T) {
	t.Parallel()
	c := NewChecker(bus.NewBus())

	c.AddVote(1)
	c.AddBallot(1)
	c.AddVote(2)
	c.AddBallot(2)
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}

	c.AddVote(2)
	if err := c.Check(); err == nil {
		t.Fatal("drift on candidate 2 was not detected")
	}

	c.Reset()
	c.AddBallot(3)
	if err := c.Check(); err == nil {
		t.Fatal("ballot without vote was not detected")
	}

	c.Reset()
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestChecker_RegistersOnBus(t *testing.T) {
	t.Parallel()
	b := bus.NewBus()
	c := NewChecker(b)

	b.Checker().AddVote(7)
	if err := c.Check(); err == nil {
		t.Fatal("vote reported through the bus was not counted")
	}
}
