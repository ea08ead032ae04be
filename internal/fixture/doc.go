// Package fixture holds bean packages shared by tests. The store package is
// the usual source side and warehouse the usual destination side; their type
// names intentionally collide so short ids like "store.Order" are exercised.
package fixture
