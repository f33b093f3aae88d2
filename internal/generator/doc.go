// Package generator turns a scaffold request into a finished Expo project.
// It guards the destination with a lock file, runs the scaffold invoker in a
// staging directory (or directly in the target), moves the result into place,
// and registers the project's default run tasks once the tool succeeds.
package generator
