package communication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyflow/internal/database/dbtest"
	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewService(repository.New(dbtest.Open(t)))
	ctx := context.Background()
	leadID := "lead-1"

	c, err := svc.Create(ctx, domain.Actor{UserID: "exec-1"}, CreateRequest{
		LeadID: &leadID, Type: domain.CommWhatsApp, Content: "Brochure attached", Recipient: "+919000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CommunicationSent, c.Status)
	assert.False(t, c.SentAt.IsZero())
	require.NotNil(t, c.CreatedBy)
	assert.Equal(t, "exec-1", *c.CreatedBy)

	_, err = svc.Create(ctx, domain.Actor{}, CreateRequest{Type: domain.CommEmail, Content: "Hi", Recipient: "a@b.c", Status: "queued"})
	require.NoError(t, err)

	forLead, err := svc.List(ctx, leadID)
	require.NoError(t, err)
	assert.Len(t, forLead, 1)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Create(ctx, domain.Actor{}, CreateRequest{Type: "pigeon", Content: "x", Recipient: "y"})
	assert.ErrorIs(t, err, ErrInvalidType)
}
