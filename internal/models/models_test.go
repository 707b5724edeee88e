package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	require.Equal(t, "Завершен", StatusLabel("completed"))
	require.Equal(t, "Завершен", StatusLabel("Completed"))
	require.Equal(t, "В ожидании", StatusLabel(OrderStatusPending))
	require.Equal(t, "Отменен", StatusLabel(OrderStatusCancelled))
	require.Equal(t, "В пути", StatusLabel(OrderStatusShipped))
	require.Equal(t, "В обработке", StatusLabel(OrderStatusProcessing))
	require.Equal(t, "", StatusLabel("archived"))
}

func TestStatusColor(t *testing.T) {
	require.Equal(t, "\x1b[32m", StatusColor("completed"))
	require.Equal(t, "\x1b[33m", StatusColor("PENDING"))
	require.Equal(t, "\x1b[31m", StatusColor(OrderStatusCancelled))
	require.Equal(t, "\x1b[36m", StatusColor(OrderStatusShipped))
	require.Equal(t, "\x1b[35m", StatusColor(OrderStatusProcessing))

	// unknown statuses still render, just without a dedicated color
	require.Equal(t, "\x1b[37m", StatusColor("archived"))
}
