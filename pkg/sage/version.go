package sage

import "github.com/sageagent/sage-sdk-go/pkg/sage/internal/version"

// Version is the SDK release version.
const Version = version.Version
