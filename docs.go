/*
Package dogstatsd is a client for emitting metrics, events and service
checks to a DogStatsD-compatible agent over UDP.

Delivery is fire-and-forget: datagrams may be dropped by the network or
the agent, the client never retries, and errors are surfaced to the
immediate caller only. This keeps the emission path cheap enough to
instrument hot code.

Creating a client and sending metrics is easy:

	client, err := dogstatsd.New(dogstatsd.ClientConfig{
		Address:      "127.0.0.1:8125",
		Prefix:       "myapp",
		ConstantTags: []string{"env:prod"},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	client.Incr("requests.handled", nil)
	client.Gauge("queue.depth", 42, []string{"queue:default"})

To pack many metrics into few datagrams, batch them through a pipeline
scoped to a unit of work:

	pipeline := client.Pipeline()
	for _, job := range jobs {
		pipeline.Incr("jobs.processed", []string{"kind:" + job.Kind})
	}
	pipeline.Send()

The pipeline never builds a packet larger than the configured maximum
(512 bytes unless changed); a single line longer than the limit is sent
alone, best effort.
*/
package dogstatsd
