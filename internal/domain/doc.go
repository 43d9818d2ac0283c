// Package domain contains the core business entities of the task board: users,
// tasks and the validation rules that apply to them. It is independent of any
// storage or delivery mechanism.
package domain
