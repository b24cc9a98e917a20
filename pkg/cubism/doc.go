// Package cubism is a safe Go API over the Live2D Cubism Core native library.
//
// The core revives compiled model images ("mocs") in place and instantiates
// live models inside caller-provided memory. This package owns that memory:
// moc buffers are 64-byte aligned and model buffers 16-byte aligned, both
// pinned for as long as the native handle derived from them is alive.
//
// A typical frame loop:
//
//	lib, err := cubism.Open(cubism.Config{})
//	if err != nil {
//	    return err
//	}
//	defer lib.Close()
//
//	moc, err := lib.ReviveMoc(data)
//	if err != nil {
//	    return err
//	}
//	defer moc.Close()
//
//	model, err := moc.InitializeModel()
//	if err != nil {
//	    return err
//	}
//	defer model.Close()
//
//	for frame := range frames {
//	    _ = model.SetParameterValue(angleX, frame.AngleX)
//	    _ = model.Update()
//	    positions, _ := model.DrawableVertexPositions()
//	    // ... draw, then:
//	    _ = model.ResetDrawableDynamicFlags()
//	}
//
// Table accessors return views over the core's own storage. A view is only
// readable until the next Update or ResetDrawableDynamicFlags on its model;
// after that every access reports ErrStaleView instead of reading memory the
// core may have rewritten.
//
// A Model serializes all native calls behind its own mutex. Closing a Moc
// while a Model derived from it is still open fails with ErrMocInUse.
package cubism
