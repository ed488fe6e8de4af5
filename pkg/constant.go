package pkg

const (
	INF_WEIGHT float64 = 1e15

	// metres
	DEFAULT_SNAP_TOLERANCE     = 300.0
	DEFAULT_BUFFER_TOLERANCE   = 30.0
	DEFAULT_MIN_SEGMENT_LENGTH = 1.0

	DEFAULT_PATH_CACHE_SIZE = 4096

	DEFAULT_ALTERNATIVE_TARGET_COUNT  = 3
	DEFAULT_ALTERNATIVE_WEIGHT_FACTOR = 1.4
	DEFAULT_ALTERNATIVE_SHARE_FACTOR  = 0.6
	DEFAULT_ALTERNATIVE_PENALTY       = 1.4

	// interval parameters closer than this are treated as the same cut point
	PARAM_EPS = 1e-9

	// canonical support segment endpoints are rounded to this many decimals (degrees)
	COORD_PRECISION = 9

	// percentages in the batch summary are rounded to this many decimals
	PERCENTAGE_PRECISION = 2
)

// enum of segment classification
type SegmentTag uint8

const (
	OVERLAP SegmentTag = iota
	NEW_BUILD
)

func (t SegmentTag) String() string {
	switch t {
	case OVERLAP:
		return "overlap"
	case NEW_BUILD:
		return "new_build"
	default:
		return "unknown"
	}
}

// Label. human readable label used in dissolved output
func (t SegmentTag) Label() string {
	switch t {
	case OVERLAP:
		return "overlapped"
	case NEW_BUILD:
		return "new-build"
	default:
		return "unknown"
	}
}

func (t SegmentTag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var SegmentTags = []SegmentTag{OVERLAP, NEW_BUILD}
