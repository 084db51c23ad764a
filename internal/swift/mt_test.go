package swift

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMT103 = "{1:F01BANKBEBBAXXX0000000000}" +
	"{2:I103BANKDEFFXXXXN}" +
	"{3:{108:MUREF123}}" +
	"{4:\n:20:FT123\n:32A:251013USD100000,00\n:50K:/1234567890\nACME CORP\n:59:/DE89370400440532013000\nGLOBAL TRADING\n:71A:OUR\n-}"

func TestParseExtractsBlocksAndFields(t *testing.T) {
	msg := Parse(sampleMT103)
	require.Len(t, msg.Blocks, 4)
	require.Equal(t, "103", msg.MessageType())

	v, ok := msg.Get("20")
	require.True(t, ok)
	require.Equal(t, "FT123", v)

	v, ok = msg.Get("32A")
	require.True(t, ok)
	require.Equal(t, "251013USD100000,00", v)

	v, ok = msg.Get("50K")
	require.True(t, ok)
	require.Equal(t, "/1234567890\nACME CORP", v)
}

func TestParseRoundTripsUntouchedMessage(t *testing.T) {
	msg := Parse(sampleMT103)
	require.Equal(t, sampleMT103, msg.String())
}

func TestSetMessageTypePreservesDirectionLetter(t *testing.T) {
	msg := Parse(sampleMT103)
	msg.SetMessageType("202")
	require.Equal(t, "202", msg.MessageType())
	for _, b := range msg.Blocks {
		if b.Number == "2" {
			require.Equal(t, byte('I'), b.Content[0])
		}
	}
}

func TestGetSetRenameDelete(t *testing.T) {
	msg := Parse(sampleMT103)

	msg.Set("20", "FT999")
	v, _ := msg.Get("20")
	require.Equal(t, "FT999", v)

	msg.Set("NEWTAG", "newvalue")
	v, ok := msg.Get("NEWTAG")
	require.True(t, ok)
	require.Equal(t, "newvalue", v)

	msg.Rename("NEWTAG", "RENAMED")
	_, ok = msg.Get("NEWTAG")
	require.False(t, ok)
	v, ok = msg.Get("RENAMED")
	require.True(t, ok)
	require.Equal(t, "newvalue", v)

	msg.Delete("RENAMED")
	_, ok = msg.Get("RENAMED")
	require.False(t, ok)
}

func TestParseMalformedInputDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		msg := Parse("not a valid mt message at all")
		require.Empty(t, msg.Blocks)
	})
	require.NotPanics(t, func() {
		Parse("{1:unterminated")
	})
	require.NotPanics(t, func() {
		Parse("")
	})
}
