package mocks

type CallLog[T any] []T

func (c CallLog[T]) Times() int {
	return len(c)
}
