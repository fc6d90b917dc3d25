// Package specstring parses and verifies Twine specification strings:
// "twine/M.N.P" or "twine/M.N.P/subspec/X.Y.Z". Version 1
// specification strings use an "x" wildcard in place of the patch
// component ("twine/1.0.x"); this package normalizes that to "0" before
// semver parsing.
package specstring

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	twerr "github.com/twine-protocol/twine-go/errors"
)

const prefix = "twine"

// Specification is a parsed and verified "twine/M.N.P[/subspec/X.Y.Z]"
// string, pinned to an expected major version.
type Specification struct {
	raw          string
	expectMajor  uint64
	version      string
	subspecParts string
	hasSubspec   bool
}

// Parse validates raw against expectMajor and returns the parsed
// Specification. expectMajor is 1 or 2 depending on which Twine
// container version is being verified.
func Parse(raw string, expectMajor uint64) (*Specification, error) {
	s := &Specification{raw: raw, expectMajor: expectMajor}
	if err := s.parseAndVerify(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Specification) parseAndVerify() error {
	slashes := strings.Count(s.raw, "/")
	if slashes != 1 && slashes != 3 {
		return twerr.NewSpecificationError("specification string does not have the correct number of /: %q", s.raw)
	}
	parts := strings.SplitN(s.raw, "/", 3)
	if parts[0] != prefix {
		return twerr.NewSpecificationError("specification string does not start with %q: %q", prefix, s.raw)
	}

	ver := normalizeWildcard(parts[1], s.expectMajor)
	sv, err := semver.NewVersion(ver)
	if err != nil {
		return twerr.NewSpecificationError("invalid version %q: %v", parts[1], err)
	}
	if sv.Major() != s.expectMajor {
		return twerr.NewSpecificationError("expected twine major version %d, found %d", s.expectMajor, sv.Major())
	}
	s.version = ver

	if len(parts) == 3 {
		sub, err := newSubspec(parts[2], s.expectMajor)
		if err != nil {
			return err
		}
		s.subspecParts = sub.raw
		s.hasSubspec = true
	}
	return nil
}

// normalizeWildcard rewrites the v1 ".x" patch wildcard to ".0" so it
// parses as valid semver. Later container versions never use a wildcard.
func normalizeWildcard(version string, major uint64) string {
	if major == 1 {
		return strings.ReplaceAll(version, ".x", ".0")
	}
	return version
}

// String returns the original specification string.
func (s *Specification) String() string { return s.raw }

// Semver returns the parsed twine/M.N.P version.
func (s *Specification) Semver() *semver.Version {
	v, _ := semver.NewVersion(s.version)
	return v
}

// Subspec returns the parsed subspec, if the specification string
// declared one.
func (s *Specification) Subspec() (*Subspec, bool) {
	if !s.hasSubspec {
		return nil, false
	}
	sub, err := newSubspec(s.subspecParts, s.expectMajor)
	if err != nil {
		// parseAndVerify already validated this string successfully once.
		panic("specstring: re-parse of previously valid subspec failed: " + err.Error())
	}
	return sub, true
}

// Satisfies reports whether the specification's version matches req
// (a semver constraint string, e.g. ">=2.0.0, <3.0.0").
func (s *Specification) Satisfies(req string) (bool, error) {
	constraint, err := semver.NewConstraint(req)
	if err != nil {
		return false, twerr.NewSpecificationError("invalid version constraint %q: %v", req, err)
	}
	return constraint.Check(s.Semver()), nil
}

// Subspec is the "{prefix}/{version}" suffix of a specification string,
// naming a third-party payload sub-specification.
type Subspec struct {
	raw     string
	prefix  string
	version string
}

func newSubspec(raw string, containerMajor uint64) (*Subspec, error) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return nil, twerr.NewSpecificationError("subspec string missing version: %q", raw)
	}
	if parts[0] == "" {
		return nil, twerr.NewSpecificationError("subspec string does not have a prefix: %q", raw)
	}
	ver := normalizeWildcard(parts[1], containerMajor)
	if _, err := semver.NewVersion(ver); err != nil {
		return nil, twerr.NewSpecificationError("invalid subspec version %q: %v", parts[1], err)
	}
	return &Subspec{raw: raw, prefix: parts[0], version: ver}, nil
}

// Prefix returns the subspec's name, e.g. "chainlink" in
// "chainlink/1.0.0".
func (s *Subspec) Prefix() string { return s.prefix }

// Semver returns the subspec's parsed version.
func (s *Subspec) Semver() *semver.Version {
	v, _ := semver.NewVersion(s.version)
	return v
}

// Satisfies reports whether the subspec's version matches req.
func (s *Subspec) Satisfies(req string) (bool, error) {
	constraint, err := semver.NewConstraint(req)
	if err != nil {
		return false, twerr.NewSpecificationError("invalid version constraint %q: %v", req, err)
	}
	return constraint.Check(s.Semver()), nil
}

func (s *Subspec) String() string { return s.raw }
