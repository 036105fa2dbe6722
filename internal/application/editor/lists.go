package editor

import (
	"reflect"

	"github.com/khoahotran/cardify/internal/domain/profile"
)

func indexOf[T any](list []T, id string, idOf func(T) string) int {
	for i, item := range list {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func removeByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	i := indexOf(list, id, idOf)
	if i < 0 {
		return list, false
	}
	return append(list[:i:i], list[i+1:]...), true
}

// moveByID moves the item with id to position to, shifting the others.
func moveByID[T any](list []T, id string, to int, idOf func(T) string) bool {
	from := indexOf(list, id, idOf)
	if from < 0 || to < 0 || to >= len(list) {
		return false
	}
	item := list[from]
	if from < to {
		copy(list[from:to], list[from+1:to+1])
	} else {
		copy(list[to+1:from+1], list[to:from])
	}
	list[to] = item
	return true
}

func replaceByID[T any](list []T, id string, item T, idOf func(T) string) bool {
	i := indexOf(list, id, idOf)
	if i < 0 {
		return false
	}
	list[i] = item
	return true
}

func equalProfiles(a, b *profile.Profile) bool {
	return reflect.DeepEqual(a.Clone(), b.Clone())
}
