package api

// graphiqlPage is the development-only playground served at /. It talks to
// /graphql over HTTP and WebSocket on the same origin.
const graphiqlPage = `<!DOCTYPE html>
<html>
	<head>
		<title>Library Catalog API</title>
		<style>html, body, #graphiql { height: 100%; margin: 0; }</style>
		<link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
	</head>
	<body>
		<div id="graphiql"></div>
		<script src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
		<script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
		<script src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
		<script src="https://unpkg.com/graphql-ws@5/umd/graphql-ws.min.js"></script>
		<script>
			const wsProto = location.protocol === 'https:' ? 'wss' : 'ws';
			const fetcher = GraphiQL.createFetcher({
				url: '/graphql',
				wsClient: graphqlWs.createClient({ url: wsProto + '://' + location.host + '/graphql' }),
			});
			ReactDOM.render(
				React.createElement(GraphiQL, { fetcher: fetcher }),
				document.getElementById('graphiql'),
			);
		</script>
	</body>
</html>
`
