package bench

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"

	benchErrors "github.com/AndreyAkinshin/stagebench/internal/errors"
	"github.com/AndreyAkinshin/stagebench/internal/model"
)

// anonymous matches the last symbol segment of closures ("func1", "1", "gowrap2").
var anonymous = regexp.MustCompile(`^(func|gowrap)?\d+$`)

// normalize turns a registration into test metadata. Repeated tests consume the
// next execution group of the suite.
func (s *Suite) normalize(reg Registration) (*model.Metadata, error) {
	if reg.fn == nil {
		return nil, &benchErrors.BenchError{
			Kind:    benchErrors.KindRegistration,
			Message: "test function is nil",
		}
	}
	if reg.group != nil && !model.ValidGroupName(*reg.group) {
		return nil, benchErrors.Registration(*reg.group)
	}

	count := reg.count
	if count < 1 {
		count = 1
	}
	var executionGroup int
	if count > 1 {
		executionGroup = int(s.executionGroups.Add(1))
	}

	name := reg.name
	if name == "" {
		name = funcName(reg.origin)
	}
	return model.NewMetadata(name, reg.group, count, executionGroup), nil
}

// funcName returns the bare symbol name of a function, or model.NoName for
// closures and nil values.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return model.NoName
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return model.NoName
	}

	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || anonymous.MatchString(name) {
		return model.NoName
	}
	return name
}
