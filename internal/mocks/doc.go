// Package mocks provides shared test doubles for the service and API layers.
//
// Interfaces with a small surface get function-field mocks: set the Fn field
// for custom behavior or rely on the default values. Stores get
// testify/mock implementations so tests can assert on calls:
//
//	users := &mocks.TestifyMockUserStore{}
//	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, store.ErrUserNotFound)
package mocks
