package vcskema

import "github.com/sirupsen/logrus"

// reconcilable codes are the ones an empty form field can trigger on an
// otherwise optional property.
var reconcilable = map[string]bool{
	CodePattern:       true,
	CodeEnumMismatch:  true,
	CodeInvalidFormat: true,
}

// reconcile drops issues raised by "" on optional properties and sets those
// values to null in out. Remaining issues are returned in order.
func reconcile(log logrus.FieldLogger, out any, issues Issues) Issues {
	kept := issues[:0:0]
	for _, is := range issues {
		if !reconcilable[is.Code] || is.property == nil || is.property.Attributes().Required {
			kept = append(kept, is)
			continue
		}
		path, err := ParsePath(is.Path)
		if err != nil {
			kept = append(kept, is)
			continue
		}
		if val, ok := path.Lookup(is.context); !ok || val != "" {
			kept = append(kept, is)
			continue
		}
		path.Set(out, nil)
		log.WithFields(logrus.Fields{"path": is.Path, "code": is.Code}).Debug("empty value nullified")
	}
	return kept
}
