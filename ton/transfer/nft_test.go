package transfer

import (
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tonbot-team/tonkit/address"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(ms)
	}
}

func TestBuildNftTransfer(t *testing.T) {
	b := NewBuilder(
		WithClock(fixedClock(1_700_000_000_000)),
		WithRandom(func(n int) int { return 7 }),
	)

	got, err := b.BuildNftTransfer(NftTransferParams{
		Recipient:           recipientAddr,
		ResponseDestination: masterAddr,
		ForwardTONAmount:    "0.01",
		ForwardMessage:      "gm",
	})
	require.NoError(t, err)
	require.Equal(t, "te6cckEBAgEAXgABpV/MPRQABi8/laAAB4AXRSvGdniZNqTLVJ1aIs1SUmOdNX1CQVGL0iCJQkr/E5P8SEhISEhISEhISEhISEhISEhISEhISEhISEhISEhISEhzEtAYAQAMAAAAAGdtCMAtfA==", got)

	tr, err := ParseNftTransfer(got)
	require.NoError(t, err)
	require.Equal(t, uint64(1_700_000_000_000*1024+7), tr.QueryID)
	require.True(t, tr.Recipient.Equals(address.MustParseAddr(recipientAddr)))
	require.True(t, tr.ResponseDestination.Equals(address.MustParseAddr(masterAddr)))
	require.Equal(t, "10000000", tr.ForwardTONAmount.Nano().String())
	require.Equal(t, "gm", tr.Comment)
}

func TestBuildNftTransfer_NoComment(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock(1)), WithRandom(func(n int) int { return 0 }))

	c, err := b.BuildNftTransferCell(NftTransferParams{
		Recipient:           recipientAddr,
		ResponseDestination: recipientAddr,
	})
	require.NoError(t, err)

	// op, query id, 2 addresses, no custom payload, zero coins, no forward payload
	require.Equal(t, uint(32+64+267*2+1+4+1), c.BitsSize())
	require.Equal(t, 0, c.RefsNum())

	tr, err := ParseNftTransferCell(c)
	require.NoError(t, err)
	require.Equal(t, uint64(1024), tr.QueryID)
	require.Nil(t, tr.ForwardPayload)
	require.Empty(t, tr.Comment)
}

func TestBuildNftTransfer_QueryID(t *testing.T) {
	const ms = 1_712_345_678_901

	rnd := rand.New(rand.NewSource(42))
	b := NewBuilder(WithClock(fixedClock(ms)), WithRandom(rnd.Intn))

	params := NftTransferParams{
		Recipient:           recipientAddr,
		ResponseDestination: responseRaw,
	}

	residuals := map[uint64]bool{}
	for i := 0; i < 200; i++ {
		c, err := b.BuildNftTransferCell(params)
		require.NoError(t, err)

		tr, err := ParseNftTransferCell(c)
		require.NoError(t, err)

		require.Equal(t, uint64(ms), tr.QueryID>>10)
		residuals[tr.QueryID&1023] = true
	}

	// low 10 bits spread over the calls in the same millisecond
	require.Greater(t, len(residuals), 100)
}

func TestBuildNftTransfer_DefaultClock(t *testing.T) {
	before := time.Now().UnixMilli()
	payload, err := BuildNftTransfer(NftTransferParams{
		Recipient:           recipientAddr,
		ResponseDestination: masterAddr,
	})
	require.NoError(t, err)
	after := time.Now().UnixMilli()

	tr, err := ParseNftTransfer(payload)
	require.NoError(t, err)

	require.GreaterOrEqual(t, tr.QueryID, uint64(before)*1024)
	require.LessOrEqual(t, tr.QueryID, uint64(after)*1024+1023)
}

func TestBuildNftTransfer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  NftTransferParams
		wantErr error
	}{
		{"empty recipient", NftTransferParams{ResponseDestination: masterAddr}, ErrInvalidArgument},
		{"empty response", NftTransferParams{Recipient: masterAddr}, ErrInvalidArgument},
		{"unknown tag", NftTransferParams{Recipient: "IgC6KV4zs8TJtSZapOrRFmqSkxzpq-oSCoxekQRKElf4nGyN", ResponseDestination: masterAddr}, address.ErrUnknownTag},
		{"bad forward amount", NftTransferParams{Recipient: masterAddr, ResponseDestination: masterAddr, ForwardTONAmount: "1,5"}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildNftTransfer(tt.params)
			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, got)
		})
	}
}

func TestParseNftTransfer_WrongOpcode(t *testing.T) {
	payload, err := BuildJettonTransfer(JettonTransferParams{
		Recipient:           recipientAddr,
		Amount:              big.NewInt(1),
		ResponseDestination: recipientAddr,
	})
	require.NoError(t, err)

	_, err = ParseNftTransfer(payload)
	require.ErrorIs(t, err, ErrUnexpectedOpcode)
}
