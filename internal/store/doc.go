// Package store publishes lint results to Redis so that other tools can
// read a run back without re-linting.
//
// A run is identified by a UUID. All keys and channels are namespaced by it:
//
//	peoplelint:{run_id}:result:{abbr}   hash, one per jurisdiction batch
//	peoplelint:{run_id}:results         set of abbreviations in the run
//	peoplelint:{run_id}:result_events   pub/sub channel, one event per save
//
// # Usage Example
//
//	client, err := store.NewClient(&redis.Options{Addr: "localhost:6379"}, store.NewRunID())
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	if err := client.SaveResult(ctx, "nc", result); err != nil {
//		return err
//	}
package store
