package catalog

const mediaFields = `
	id
	title { romaji english native userPreferred }
	countryOfOrigin
	format
	status
	chapters
	volumes
	coverImage { large }
`

const trackedListQuery = `
	query ($userId: Int, $userName: String, $sort: [MediaListSort]) {
		MediaListCollection(userId: $userId, userName: $userName, type: MANGA, sort: $sort) {
			user {
				id
				name
				mediaListOptions { mangaList { customLists } }
			}
			lists {
				name
				isCustomList
				entries {
					mediaId
					notes
					customLists(asArray: false)
					media {` + mediaFields + `}
				}
			}
		}
	}
`

const viewerQuery = `
	query {
		Viewer {
			id
			name
			options { titleLanguage }
			mediaListOptions { mangaList { customLists } }
		}
	}
`

const userCustomListsQuery = `
	query ($userId: Int) {
		User(id: $userId) {
			id
			name
			mediaListOptions { mangaList { customLists } }
		}
	}
`

const updateCustomListsMutation = `
	mutation ($customLists: [String]) {
		UpdateUser(mangaListOptions: { customLists: $customLists }) {
			id
			mediaListOptions { mangaList { customLists } }
		}
	}
`

const entryMembershipQuery = `
	query ($userId: Int, $mediaId: Int) {
		MediaList(userId: $userId, mediaId: $mediaId) {
			id
			notes
			customLists(asArray: false)
		}
	}
`

const saveEntryListsMutation = `
	mutation ($mediaId: Int, $customLists: [String]) {
		SaveMediaListEntry(mediaId: $mediaId, customLists: $customLists) {
			id
			customLists(asArray: false)
		}
	}
`

const saveEntryNotesMutation = `
	mutation ($mediaId: Int, $notes: String) {
		SaveMediaListEntry(mediaId: $mediaId, notes: $notes) {
			id
			notes
		}
	}
`

const seriesQuery = `
	query ($id: Int, $search: String, $format: MediaFormat) {
		Media(id: $id, search: $search, format: $format, type: MANGA) {` + mediaFields + `}
	}
`
