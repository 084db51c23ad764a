package swift

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransformMT103ToMT202MapsFields(t *testing.T) {
	result := Transform(sampleMT103, "MT103_TO_MT202")
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, "202", result.OutputMessageType)

	out := Parse(result.OutputMessage)
	require.Equal(t, "202", out.MessageType())

	v, ok := out.Get("52A")
	require.True(t, ok)
	require.Equal(t, "/1234567890\nACME CORP", v)

	v, ok = out.Get("58A")
	require.True(t, ok)
	require.Equal(t, "/DE89370400440532013000\nGLOBAL TRADING", v)

	_, ok = out.Get("50K")
	require.False(t, ok)
	_, ok = out.Get("59")
	require.False(t, ok)

	v, _ = out.Get("20")
	require.Equal(t, "FT123", v)
	v, _ = out.Get("32A")
	require.Equal(t, "251013USD100000,00", v)
	v, _ = out.Get("71A")
	require.Equal(t, "OUR", v)
}

func TestTransformMT103ToMT202MissingRequiredFields(t *testing.T) {
	minimal := "{1:F01X}{2:I103X}{4:\n:50K:/123\nACME\n-}"
	result := Transform(minimal, "MT103_TO_MT202")
	require.Equal(t, StatusValidationErr, result.Status)
	require.Contains(t, result.ErrorMessage, "20")
	require.Contains(t, result.ErrorMessage, "32A")
}

func TestTransformMT202ToMT103IsLossyWithWarning(t *testing.T) {
	mt202 := "{1:F01X}{2:I202X}{4:\n:20:FT1\n:32A:251013USD1,00\n:52A:/111\nBANKONE\n:58A:/222\nBANKTWO\n-}"
	result := Transform(mt202, "MT202_TO_MT103")
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, "103", result.OutputMessageType)
	require.NotEmpty(t, result.Warnings)

	out := Parse(result.OutputMessage)
	v, ok := out.Get("50K")
	require.True(t, ok)
	require.Equal(t, "/111\nBANKONE", v)
	v, ok = out.Get("59")
	require.True(t, ok)
	require.Equal(t, "/222\nBANKTWO", v)
}

func TestTransformEnrichFieldsInsertsMarkerOnce(t *testing.T) {
	raw := "{1:F01X}{2:I103X}{3:{121:uetr-abc}}{4:\n:20:FT1\n:32A:amt\n-}"

	result := Transform(raw, "ENRICH_FIELDS")
	require.Equal(t, StatusSuccess, result.Status)
	require.Contains(t, result.OutputMessage, "108:")

	result2 := Transform(result.OutputMessage, "ENRICH_FIELDS")
	count := 0
	for i := 0; i+4 <= len(result2.OutputMessage); i++ {
		if result2.OutputMessage[i:i+4] == "108:" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestTransformEnrichFieldsInsertsBlockWhenAbsent(t *testing.T) {
	raw := "{1:F01X}{2:I103X}{4:\n:20:FT1\n:32A:amt\n-}"
	result := Transform(raw, "ENRICH_FIELDS")
	require.Equal(t, StatusSuccess, result.Status)

	out := Parse(result.OutputMessage)
	require.Len(t, out.Blocks, 4)
	require.Equal(t, "3", out.Blocks[2].Number)
	require.Equal(t, "4", out.Blocks[3].Number)
}

func TestTransformNormalizeFormatTrimsTrailingWhitespace(t *testing.T) {
	raw := "{1:F01X}{2:I103X}{4:\n:20:FT1  \r\n:32A:amt\n-}"
	result := Transform(raw, "NORMALIZE_FORMAT")
	require.Equal(t, StatusSuccess, result.Status)
	out := Parse(result.OutputMessage)
	v, _ := out.Get("20")
	require.Equal(t, "FT1", v)
}

func TestTransformUnknownTypeFails(t *testing.T) {
	result := Transform(sampleMT103, "MT_TO_MX")
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.ErrorMessage, "not yet implemented")

	result = Transform(sampleMT103, "BOGUS")
	require.Equal(t, StatusFailed, result.Status)
}
