package catalog

import (
	"regexp"

	"github.com/packdex/packdex/pkg/errors"
)

// Platform is the normalized form of a raw platform tag: a target type plus
// the sub-versions that target carries. Classification is total over the
// recognized grammar; an unrecognized tag is a hard error surfaced to the
// caller, never a silent drop.
type Platform struct {
	Target          TargetType
	LanguageVersion string
	JsVersion       string
	NativeVersion   string
	SbtVersion      string
}

var (
	jvmPattern    = regexp.MustCompile(`^(\d+(?:\.\d+)*)$`)
	jsPattern     = regexp.MustCompile(`^sjs(\d+(?:\.\d+)*)_(\d+(?:\.\d+)*)$`)
	nativePattern = regexp.MustCompile(`^native(\d+(?:\.\d+)*)_(\d+(?:\.\d+)*)$`)
	sbtPattern    = regexp.MustCompile(`^sbt(\d+(?:\.\d+)*)_(\d+(?:\.\d+)*)$`)
)

// ClassifyPlatform maps a raw platform tag to its normalized form.
//
// Recognized forms:
//   - "2.13", "3"              → Jvm with that language version
//   - "sjs1_2.13"              → Js runtime 1, language 2.13
//   - "native0.4_2.13"         → Native runtime 0.4, language 2.13
//   - "sbt1.0_2.12"            → build-tool plugin, tool 1.0, language 2.12
//   - "java", ""               → plain artifact, no versions
func ClassifyPlatform(raw string) (Platform, error) {
	switch {
	case raw == "" || raw == "java":
		return Platform{Target: TargetJava}, nil
	case jvmPattern.MatchString(raw):
		return Platform{Target: TargetJvm, LanguageVersion: raw}, nil
	}
	if m := jsPattern.FindStringSubmatch(raw); m != nil {
		return Platform{Target: TargetJs, JsVersion: m[1], LanguageVersion: m[2]}, nil
	}
	if m := nativePattern.FindStringSubmatch(raw); m != nil {
		return Platform{Target: TargetNative, NativeVersion: m[1], LanguageVersion: m[2]}, nil
	}
	if m := sbtPattern.FindStringSubmatch(raw); m != nil {
		return Platform{Target: TargetSbt, SbtVersion: m[1], LanguageVersion: m[2]}, nil
	}
	return Platform{}, errors.New(errors.ErrCodeInvalidPlatform, "unrecognized platform tag %q", raw)
}
