package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hosteldesk/hosteldesk/internal/model"
)

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)

	assert.Equal(t, 0, s.Overview.Total)
	assert.Equal(t, 0, s.Overview.Read)
	assert.Equal(t, 0, s.Overview.Unread)
	assert.Equal(t, PriorityBuckets{}, s.Priority)
	assert.Empty(t, s.ByType)
}

func TestComputeOverview(t *testing.T) {
	s := Compute([]model.Notification{
		{ID: "1", IsRead: true},
		{ID: "2", IsRead: false},
		{ID: "3", IsRead: false},
	})

	assert.Equal(t, 3, s.Overview.Total)
	assert.Equal(t, 1, s.Overview.Read)
	assert.Equal(t, 2, s.Overview.Unread)
}

func TestComputePriorityBuckets(t *testing.T) {
	s := Compute([]model.Notification{
		{ID: "1", Priority: model.PriorityUrgent},
		{ID: "2", Priority: model.PriorityHigh},
		{ID: "3", Priority: model.PriorityHigh},
		{ID: "4", Priority: model.PriorityLow},
	})

	assert.Equal(t, PriorityBuckets{Urgent: 1, High: 2, Medium: 0, Low: 1}, s.Priority)
	assert.Equal(t, 4, s.Overview.Total)
}

func TestComputeUnknownPriority(t *testing.T) {
	s := Compute([]model.Notification{
		{ID: "1", Priority: "critical"},
		{ID: "2", Priority: model.PriorityMedium},
	})

	// Unknown priorities count toward the total but land in no bucket.
	assert.Equal(t, 2, s.Overview.Total)
	assert.Equal(t, PriorityBuckets{Medium: 1}, s.Priority)
}

func TestComputeTypeCountsFirstSeenOrder(t *testing.T) {
	s := Compute([]model.Notification{
		{ID: "1", Type: model.TypeFeeOverdue},
		{ID: "2", Type: model.TypeComplaintNew},
		{ID: "3", Type: model.TypeFeeOverdue},
		{ID: "4", Type: model.TypeRoomAllocated},
		{ID: "5", Type: model.TypeComplaintNew},
	})

	assert.Equal(t, []TypeCount{
		{Type: model.TypeFeeOverdue, Count: 2},
		{Type: model.TypeComplaintNew, Count: 2},
		{Type: model.TypeRoomAllocated, Count: 1},
	}, s.ByType)
}

func TestComputeIsPure(t *testing.T) {
	in := []model.Notification{
		{ID: "1", Priority: model.PriorityHigh, IsRead: false},
	}
	first := Compute(in)
	second := Compute(in)

	assert.Equal(t, first, second)
	assert.Equal(t, "1", in[0].ID)
	assert.False(t, in[0].IsRead)
}
