// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package watch refreshes a poll's status from the API on a fixed interval.

	w := watch.New("https://trips.example", pollID, watch.WithInterval(30*time.Second))
	err := w.Run(ctx, func(u watch.Update) {
		if u.Err == nil {
			fmt.Println(u.Result.PollStatus.ResponseRate)
		}
	})

Run stops when ctx is cancelled, the same way a status view stops its
timer when it is torn down.
*/
package watch
