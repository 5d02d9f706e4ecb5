// Package shutdown runs cleanup hooks when the process is asked to stop.
//
// Usage:
//
//	h := shutdown.NewHandler(15*time.Second, shutdown.WithLogger(log))
//	h.OnShutdown("http", srv.Shutdown)
//	go func() {
//		if err := srv.ListenAndServe(); err != nil {
//			h.Trigger(err.Error())
//		}
//	}()
//	return h.Wait()
package shutdown
