package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/devscope/pkg/domain"
)

func TestDigestRepository(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	saved := map[domain.DigestType][]int64{}
	for i, dtype := range []domain.DigestType{domain.DigestDaily, domain.DigestDaily, domain.DigestWeekly} {
		id, err := repos.Digest.SaveDigest(ctx, &domain.Digest{
			Type:        dtype,
			Content:     "digest content",
			ItemCount:   i + 1,
			GeneratedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		require.NotZero(t, id)
		saved[dtype] = append(saved[dtype], id)
	}

	t.Run("get by id", func(t *testing.T) {
		digest, err := repos.Digest.GetDigest(ctx, saved[domain.DigestWeekly][0])
		require.NoError(t, err)
		assert.Equal(t, domain.DigestWeekly, digest.Type)
		assert.Equal(t, "digest content", digest.Content)
		assert.Equal(t, 3, digest.ItemCount)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repos.Digest.GetDigest(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list all newest first", func(t *testing.T) {
		digests, err := repos.Digest.ListDigests(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, digests, 3)
		assert.Equal(t, domain.DigestWeekly, digests[0].Type)
	})

	t.Run("list filtered by type", func(t *testing.T) {
		digests, err := repos.Digest.ListDigests(ctx, domain.DigestDaily, 10)
		require.NoError(t, err)
		require.Len(t, digests, 2)
		for _, d := range digests {
			assert.Equal(t, domain.DigestDaily, d.Type)
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		digests, err := repos.Digest.ListDigests(ctx, "", 1)
		require.NoError(t, err)
		assert.Len(t, digests, 1)
	})
}
