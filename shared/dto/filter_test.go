package dto_test

import (
	"bazaar/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equal with table",
			filter:    dto.Filter{Field: "status", Value: "failed", Operator: dto.FilterOperatorEq, Table: "booking_submissions"},
			wantWhere: "booking_submissions.status = :status",
			wantArgs:  map[string]any{"status": "failed"},
		},
		{
			name:      "in binds every element",
			filter:    dto.Filter{Field: "status", Value: []string{"pending", "failed"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "failed"},
		},
		{
			name:      "in with empty slice renders nothing",
			filter:    dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "in never interpolates a scalar",
			filter:    dto.Filter{Field: "status", Value: "1); DROP TABLE booking_submissions; --", Operator: dto.FilterOperatorIn},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "greater or equal with arg name",
			filter:    dto.Filter{ArgName: "from", Field: "booking_date", Value: "2026-10-01", Operator: dto.FilterOperatorGreaterEq},
			wantWhere: "booking_date >= :from",
			wantArgs:  map[string]any{"from": "2026-10-01"},
		},
		{
			name:      "less or equal",
			filter:    dto.Filter{Field: "booking_date", Value: "2026-10-31", Operator: dto.FilterOperatorLessEq},
			wantWhere: "booking_date <= :booking_date",
			wantArgs:  map[string]any{"booking_date": "2026-10-31"},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "status", Value: "x", Operator: "like"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	t.Run("empty group", func(t *testing.T) {
		group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

		where, args := group.GetWhereClause()

		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("defaults to AND and skips empty conditions", func(t *testing.T) {
		group := dto.FilterGroup{
			Filters: []any{
				dto.Filter{Field: "created_by", Value: "customer-1", Operator: dto.FilterOperatorEq},
				dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
				dto.FilterGroup{Filters: []any{
					dto.Filter{ArgName: "from", Field: "booking_date", Value: "2026-10-01", Operator: dto.FilterOperatorGreaterEq},
					dto.Filter{ArgName: "to", Field: "booking_date", Value: "2026-10-31", Operator: dto.FilterOperatorLessEq},
				}},
				"not a filter",
			},
		}

		where, args := group.GetWhereClause()

		assert.Equal(t, "(created_by = :created_by AND (booking_date >= :from AND booking_date <= :to))", where)
		assert.Equal(t, map[string]any{"created_by": "customer-1", "from": "2026-10-01", "to": "2026-10-31"}, args)
	})
}
