package tree

import (
	"fmt"
	"sync"

	"github.com/cosmos/iavl"
	dbm "github.com/tendermint/tm-db"
)

type saver interface {
	Commit(db *iavl.MutableTree, version int64) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

// MTree mutable tree, used for txs delivery
type MTree interface {
	Commit(...saver) ([]byte, int64, error)
	MutableTree() *iavl.MutableTree
	GetLastImmutable() *iavl.ImmutableTree
	GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error)
	DeleteVersion(version int64) error
	AvailableVersions() []int
	Version() int64
}

// NewMutableTree opens the tree at height for delivering txs. Use NewImmutableTree for read-only access.
func NewMutableTree(height uint64, db dbm.DB, cacheSize int, initialVersion uint64) (MTree, error) {
	tree, err := iavl.NewMutableTreeWithOpts(db, cacheSize, &iavl.Options{InitialVersion: initialVersion})
	if err != nil {
		return nil, err
	}

	m := &mutableTree{
		tree:           tree,
		initialVersion: int64(initialVersion),
	}
	if height == 0 {
		return m, nil
	}

	if _, err := m.tree.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, err
	}

	return m, nil
}

type mutableTree struct {
	tree           *iavl.MutableTree
	initialVersion int64
	lock           sync.RWMutex
}

func (t *mutableTree) MutableTree() *iavl.MutableTree {
	return t.tree
}

func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	immutable, err := t.tree.GetImmutable(t.tree.Version())
	if err != nil {
		// nothing saved yet, read through the working tree
		return t.tree.ImmutableTree
	}

	return immutable
}

func (t *mutableTree) GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.GetImmutable(version)
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

// Commit flushes every saver into the tree, saves a new version and hands the
// fresh immutable snapshot back to the savers.
func (t *mutableTree) Commit(savers ...saver) (hash []byte, version int64, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	nextVersion := t.tree.Version() + 1
	if nextVersion == 1 && t.initialVersion > 1 {
		nextVersion = t.initialVersion
	}
	for _, s := range savers {
		if err := s.Commit(t.tree, nextVersion); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err = t.tree.SaveVersion()
	if err != nil {
		return nil, 0, err
	}

	immutable, err := t.tree.GetImmutable(version)
	if err != nil {
		return nil, 0, fmt.Errorf("load immutable tree %d: %w", version, err)
	}

	for _, s := range savers {
		s.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) DeleteVersion(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}

// NewImmutableTree returns the read-only snapshot of the tree saved at height
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	tree, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, err
	}
	return tree.GetImmutable(int64(height))
}
