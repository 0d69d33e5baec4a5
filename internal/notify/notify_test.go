package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPush_NewestFirstAndCapped(t *testing.T) {
	now := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	var list []Notification
	for i := 0; i < MaxKept+10; i++ {
		list = Push(list, New(KindInfo, fmt.Sprintf("n%d", i), now.Add(time.Duration(i)*time.Minute)))
	}

	require.Len(t, list, MaxKept)
	assert.Equal(t, fmt.Sprintf("n%d", MaxKept+9), list[0].Message)
}

func TestMerge_DeduplicatesByID(t *testing.T) {
	now := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	a := New(KindReminder, "water the plants", now)
	b := New(KindInfo, "local", now.Add(time.Minute))

	merged := Merge([]Notification{b, a}, []Notification{a})
	require.Len(t, merged, 2)
	assert.Equal(t, b.ID, merged[0].ID, "sorted newest first")
}

func TestMerge_DropsEmptyIDsAndCaps(t *testing.T) {
	now := time.Now()
	var inbound []Notification
	for i := 0; i < MaxKept+5; i++ {
		inbound = append(inbound, New(KindReminder, "r", now.Add(time.Duration(i)*time.Second)))
	}
	inbound = append(inbound, Notification{Message: "no id"})

	merged := Merge(nil, inbound)
	assert.Len(t, merged, MaxKept)
	for _, n := range merged {
		assert.NotEmpty(t, n.ID)
	}
}
