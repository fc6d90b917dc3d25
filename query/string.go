package query

import (
	"strconv"
	"strings"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
)

// Parse reads the stable CLI/URL query grammar:
//
//	<cid>                  strand query
//	<cid>:latest, <cid>:-1 latest
//	<cid>:<index>          absolute index (non-negative)
//	<cid>:<tixelCid>       stitch
//	<cid>:<start>:<end>    half-open range
//	<cid>:<start>:=<end>   inclusive range
//
// An empty start or end in a range is unbounded on that side.
func Parse(raw string) (AnyQuery, error) {
	parts := strings.SplitN(raw, ":", 3)

	strand, err := twcid.Parse(parts[0])
	if err != nil {
		return AnyQuery{}, twerr.NewConversionError("invalid strand cid in query", err)
	}

	switch len(parts) {
	case 1:
		return NewStrandQuery(strand), nil
	case 2:
		return parseSingle(strand, parts[1])
	case 3:
		return parseRange(strand, parts[1], parts[2])
	default:
		return AnyQuery{}, twerr.NewConversionError("too many ':'-separated segments in query", nil)
	}
}

func parseSingle(strand twcid.Cid, seg string) (AnyQuery, error) {
	if seg == "latest" {
		return NewOneQuery(NewLatestQuery(strand)), nil
	}
	if idx, err := strconv.ParseInt(seg, 10, 64); err == nil {
		return NewOneQuery(NewIndexQuery(strand, idx)), nil
	}
	tixel, err := twcid.Parse(seg)
	if err != nil {
		return AnyQuery{}, twerr.NewConversionError("query segment is neither an index, \"latest\", nor a cid: "+seg, err)
	}
	return NewOneQuery(NewStitchQuery(strand, tixel)), nil
}

func parseRange(strand twcid.Cid, startSeg, endSeg string) (AnyQuery, error) {
	inclusive := strings.HasPrefix(endSeg, "=")
	if inclusive {
		endSeg = endSeg[1:]
	}

	start, err := parseBound(startSeg)
	if err != nil {
		return AnyQuery{}, err
	}
	end, err := parseBound(endSeg)
	if err != nil {
		return AnyQuery{}, err
	}

	if !inclusive && end.Kind != Unbounded {
		end = Bound{Kind: Excluded, Value: end.Value}
	} else if end.Kind != Unbounded {
		end = Bound{Kind: Included, Value: end.Value}
	}
	if start.Kind != Unbounded {
		start = Bound{Kind: Included, Value: start.Value}
	}

	return NewManyQuery(NewRelativeRangeQuery(strand, start, end)), nil
}

func parseBound(seg string) (Bound, error) {
	if seg == "" {
		return Bound{Kind: Unbounded}, nil
	}
	v, err := strconv.ParseInt(seg, 10, 64)
	if err != nil {
		return Bound{}, twerr.NewConversionError("invalid range bound: "+seg, err)
	}
	return Bound{Kind: Included, Value: v}, nil
}

// String renders q back into the stable grammar Parse accepts.
func (q AnyQuery) String() string {
	switch q.Kind {
	case QueryAnyStrand:
		return q.Strand.String()
	case QueryAnyOne:
		return q.One.String()
	case QueryAnyMany:
		return q.Many.String()
	default:
		return ""
	}
}

func (q SingleQuery) String() string {
	switch q.Kind {
	case QueryLatest:
		return q.Strand.String() + ":latest"
	case QueryStitch:
		return q.Strand.String() + ":" + q.Tixel.String()
	case QueryIndex:
		return q.Strand.String() + ":" + strconv.FormatInt(q.Index, 10)
	default:
		return q.Strand.String()
	}
}

func (r RangeQuery) String() string {
	if r.Kind == RangeAbsolute {
		return r.Strand.String() + ":" + strconv.FormatUint(r.Absolute.Start, 10) + ":=" + strconv.FormatUint(r.Absolute.End, 10)
	}
	start := formatBound(r.Start)
	if r.End.Kind == Included {
		return r.Strand.String() + ":" + start + ":=" + strconv.FormatInt(r.End.Value, 10)
	}
	return r.Strand.String() + ":" + start + ":" + formatBound(r.End)
}

func formatBound(b Bound) string {
	if b.Kind == Unbounded {
		return ""
	}
	return strconv.FormatInt(b.Value, 10)
}
