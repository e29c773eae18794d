package helpers

import "github.com/hashicorp/go-multierror"

// CollectErrors folds non-nil errors into a single multierror.
func CollectErrors(errs ...error) error {
	var err error
	for _, e := range errs {
		if e != nil {
			err = multierror.Append(err, e)
		}
	}
	return err
}
