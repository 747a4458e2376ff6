package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/domain"
)

func validLogParams() audit.LogParams {
	return audit.LogParams{
		OrganizationID: uuid.New(),
		RecordType:     domain.RecordTypeSale,
		RecordID:       uuid.New(),
		RecordData:     map[string]any{"amount": int64(5000)},
		DeletedByName:  "Marie Okome",
		Reason:         "Erreur de saisie",
	}
}

func TestRecorderLogDeletion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("writes one entry with server-assigned id and timestamp", func(t *testing.T) {
		t.Parallel()
		store := &fakeDeletionLog{}
		r := audit.NewRecorder(store)

		p := validLogParams()
		entry, err := r.LogDeletion(ctx, p)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.WithinDuration(t, time.Now(), entry.DeletedAt, 5*time.Second)
		assert.Equal(t, p.OrganizationID, entry.OrganizationID)
		assert.Equal(t, p.RecordID, entry.RecordID)
		assert.Equal(t, p.RecordData, entry.RecordData)
		assert.Nil(t, entry.DeletedByUserID)
		require.Len(t, store.entries, 1)
	})

	t.Run("missing fields are rejected without a write", func(t *testing.T) {
		t.Parallel()

		mutations := map[string]func(*audit.LogParams){
			"organization id": func(p *audit.LogParams) { p.OrganizationID = uuid.Nil },
			"record type":     func(p *audit.LogParams) { p.RecordType = "" },
			"record id":       func(p *audit.LogParams) { p.RecordID = uuid.Nil },
			"record data":     func(p *audit.LogParams) { p.RecordData = nil },
			"reason":          func(p *audit.LogParams) { p.Reason = "" },
		}

		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				store := &fakeDeletionLog{}
				r := audit.NewRecorder(store)

				p := validLogParams()
				mutate(&p)

				_, err := r.LogDeletion(ctx, p)
				assert.ErrorIs(t, err, audit.ErrMissingParameter)
				assert.Empty(t, store.entries)
			})
		}
	})

	t.Run("store failures propagate", func(t *testing.T) {
		t.Parallel()
		store := &fakeDeletionLog{createErr: errors.New("insert failed")}
		r := audit.NewRecorder(store)

		_, err := r.LogDeletion(ctx, validLogParams())
		assert.Error(t, err)
	})
}
